package separator_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/separator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threeSections = []kaoyan.Section{
	{Name: "one", Separator: "|||ONE|||"},
	{Name: "two", Separator: "|||TWO|||"},
	{Name: "three", Separator: "|||THREE|||"},
}

func TestParser_SeparatorSplitAcrossChunks(t *testing.T) {
	t.Parallel()
	sections := []kaoyan.Section{
		{Name: "focus", Separator: "|||FOCUS|||"},
		{Name: "clarification", Separator: "|||CLARIFICATION|||"},
	}
	p := separator.New(sections)

	assert.Equal(t, []string{"focus"}, p.Feed("|||FOCUS|||A|||CLAR"))
	assert.Equal(t, "A", p.Section("focus"))

	assert.Equal(t, []string{"clarification"}, p.Feed("IFICATION|||B"))
	assert.Nil(t, p.Flush())

	assert.Equal(t, map[string]string{"focus": "A", "clarification": "B"}, p.Sections())
}

func TestParser_AllSeparators(t *testing.T) {
	t.Parallel()
	text := "|||ONE|||first|||TWO|||second|||THREE|||third"
	got := separator.Split(text, threeSections)
	assert.Equal(t, map[string]string{"one": "first", "two": "second", "three": "third"}, got)
	assert.Equal(t, "|||ONE|||"+got["one"]+"|||TWO|||"+got["two"]+"|||THREE|||"+got["three"], text)
}

func TestParser_MissingMiddleSeparator(t *testing.T) {
	t.Parallel()
	got := separator.Split("|||ONE|||first|||THREE|||rest of it", threeSections)
	assert.Equal(t, "first", got["one"])
	assert.Empty(t, got["two"])
	assert.Equal(t, "rest of it", got["three"])
}

func TestParser_NoSeparator(t *testing.T) {
	t.Parallel()
	p := separator.New(threeSections)
	assert.Nil(t, p.Feed("the model ignored the format"))
	assert.Nil(t, p.Flush())
	for _, s := range threeSections {
		assert.Empty(t, p.Section(s.Name))
	}
}

func TestParser_PreambleDiscarded(t *testing.T) {
	t.Parallel()
	got := separator.Split("Sure! Here you go:\n|||ONE|||a|||TWO|||b", threeSections)
	assert.Equal(t, "a", got["one"])
	assert.Equal(t, "b", got["two"])
}

func TestParser_FirstSeparatorSkipped(t *testing.T) {
	t.Parallel()
	got := separator.Split("noise|||TWO|||b|||THREE|||c", threeSections)
	assert.Empty(t, got["one"])
	assert.Equal(t, "b", got["two"])
	assert.Equal(t, "c", got["three"])
}

func TestParser_EarlierSeparatorIgnoredOnceOpen(t *testing.T) {
	t.Parallel()
	got := separator.Split("|||TWO|||b|||ONE|||still b", threeSections)
	assert.Empty(t, got["one"])
	assert.Equal(t, "b|||ONE|||still b", got["two"])
}

func TestParser_LastSectionAbsorbsEverything(t *testing.T) {
	t.Parallel()
	got := separator.Split("|||THREE|||c|||ONE|||x|||TWO|||y", threeSections)
	assert.Equal(t, "c|||ONE|||x|||TWO|||y", got["three"])
}

func TestParser_SeveralSeparatorsInOneChunk(t *testing.T) {
	t.Parallel()
	p := separator.New(threeSections)
	names := p.Feed("|||ONE|||a|||TWO|||b|||THREE|||c")
	assert.Equal(t, []string{"one", "two", "three"}, names)
	p.Flush()
	assert.Equal(t, map[string]string{"one": "a", "two": "b", "three": "c"}, p.Sections())
}

func TestParser_HeldBackPrefixThatIsNotASeparator(t *testing.T) {
	t.Parallel()
	p := separator.New(threeSections)
	p.Feed("|||ONE|||a|||TW")
	assert.Equal(t, "a", p.Section("one"))

	assert.Equal(t, []string{"one"}, p.Feed("IST"))
	assert.Equal(t, "a|||TWIST", p.Section("one"))
}

func TestParser_FlushReleasesHeldTail(t *testing.T) {
	t.Parallel()
	p := separator.New(threeSections)
	p.Feed("|||ONE|||a||")
	assert.Equal(t, "a", p.Section("one"))

	assert.Equal(t, []string{"one"}, p.Flush())
	assert.Equal(t, "a||", p.Section("one"))
}

func TestParser_EmptyFirstSeparatorOpensImmediately(t *testing.T) {
	t.Parallel()
	sections := []kaoyan.Section{
		{Name: "question", Separator: ""},
		{Name: "answer", Separator: "====="},
	}
	p := separator.New(sections)

	assert.Equal(t, []string{"question"}, p.Feed("Which is right?\nA. x\n=="))
	assert.Equal(t, "Which is right?\nA. x\n", p.Section("question"))

	assert.Equal(t, []string{"answer"}, p.Feed("===\nA is right"))
	assert.Equal(t, "\nA is right", p.Section("answer"))
}

func TestParser_SummarySuggestion(t *testing.T) {
	t.Parallel()
	sections := []kaoyan.Section{
		{Name: "summary"},
		{Name: "suggestion", Separator: "|||"},
	}
	got := separator.Split("**总结:** 很好|||**小建议:** 多休息", sections)
	assert.Equal(t, "**总结:** 很好", got["summary"])
	assert.Equal(t, "**小建议:** 多休息", got["suggestion"])
}

func TestParser_EmptySections(t *testing.T) {
	t.Parallel()
	p := separator.New(nil)
	assert.Nil(t, p.Feed("anything"))
	assert.Nil(t, p.Flush())
	assert.Empty(t, p.Sections())
}

func TestParser_ChunkingInvariance(t *testing.T) {
	t.Parallel()
	text := "preamble|||ONE|||alpha | beta|||TWO|||gamma||||||THREE|||delta|||ONE|||"
	want := separator.Split(text, threeSections)

	t.Run("every two-chunk split", func(t *testing.T) {
		t.Parallel()
		for i := 0; i <= len(text); i++ {
			p := separator.New(threeSections)
			p.Feed(text[:i])
			p.Feed(text[i:])
			p.Flush()
			require.Equal(t, want, p.Sections(), "split at %d", i)
		}
	})

	t.Run("byte by byte", func(t *testing.T) {
		t.Parallel()
		p := separator.New(threeSections)
		for i := 0; i < len(text); i++ {
			p.Feed(text[i : i+1])
		}
		p.Flush()
		assert.Equal(t, want, p.Sections())
	})
}

func TestParser_GrowthNotifications(t *testing.T) {
	t.Parallel()
	p := separator.New(threeSections)
	var seen []string
	for _, chunk := range []string{"|||ONE|||", "a", "b|||TWO", "|||c"} {
		seen = append(seen, p.Feed(chunk)...)
	}
	seen = append(seen, p.Flush()...)
	assert.Equal(t, []string{"one", "one", "two"}, seen)
	assert.Equal(t, "ab", p.Section("one"))
	assert.Equal(t, "c", p.Section("two"))
}

func TestNewSectionParser(t *testing.T) {
	t.Parallel()
	var factory kaoyan.ParserFactory = separator.NewSectionParser
	p := factory(threeSections)
	p.Feed(strings.Repeat("x", 3) + "|||ONE|||y")
	p.Flush()
	assert.Equal(t, "y", p.Section("one"))
}

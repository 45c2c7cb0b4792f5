package bubbletea_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/kaoyan"
	bt "github.com/fwojciec/kaoyan/bubbletea"
	"github.com/stretchr/testify/assert"
)

func testStyles() bt.Styles {
	return bt.NewStyles(kaoyan.DefaultTheme())
}

func TestPromptBlock(t *testing.T) {
	t.Parallel()

	b := bt.NewPromptBlock("什么是剩余价值?", testStyles())
	view := b.View(80)
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "什么是剩余价值?")
}

func TestThinkingBlock(t *testing.T) {
	t.Parallel()

	t.Run("starts collapsed and in progress", func(t *testing.T) {
		t.Parallel()

		b := bt.NewThinkingBlock(testStyles())
		b.Append("先想一想")
		view := b.View(80)
		assert.Contains(t, view, "▶")
		assert.Contains(t, view, "Thinking... (4 chars)")
		assert.NotContains(t, view, "先想一想")
	})

	t.Run("toggle expands content", func(t *testing.T) {
		t.Parallel()

		b := bt.NewThinkingBlock(testStyles())
		b.Append("reasoning")
		updated, _ := b.Update(bt.ToggleMsg{})
		view := updated.View(80)
		assert.Contains(t, view, "▼")
		assert.Contains(t, view, "reasoning")

		updated, _ = updated.Update(bt.ToggleMsg{})
		assert.NotContains(t, updated.View(80), "reasoning")
	})

	t.Run("complete header", func(t *testing.T) {
		t.Parallel()

		b := bt.NewThinkingBlock(testStyles())
		b.Append("abc")
		b.SetStatus(kaoyan.ThinkingComplete)
		assert.Equal(t, kaoyan.ThinkingComplete, b.Status())
		assert.Contains(t, b.View(80), "Thought (3 chars)")
	})

	t.Run("empty expanded block renders header only", func(t *testing.T) {
		t.Parallel()

		b := bt.NewThinkingBlock(testStyles())
		updated, _ := b.Update(bt.ToggleMsg{})
		assert.NotContains(t, updated.View(80), "\n")
	})
}

func TestAnswerBlock(t *testing.T) {
	t.Parallel()

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAnswerBlock(kaoyan.DefaultTheme())
		b.Append("**量变**与质变")
		view := b.View(80)
		assert.Contains(t, view, "量变")
		assert.NotContains(t, view, "**")
	})

	t.Run("paragraphs streamed across chunks", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAnswerBlock(kaoyan.DefaultTheme())
		for _, c := range []string{"First para", "graph.\n", "\nSecond ", "paragraph."} {
			b.Append(c)
		}
		assert.Equal(t, "First paragraph.\n\nSecond paragraph.", b.Text())
		view := b.View(80)
		assert.Contains(t, view, "First paragraph.")
		assert.Contains(t, view, "Second paragraph.")
		assert.Less(t, strings.Index(view, "First"), strings.Index(view, "Second"))
	})

	t.Run("unclosed fence renders as code", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAnswerBlock(kaoyan.DefaultTheme())
		b.Append("Intro\n\n```go\nx := 1\n\ny := 2")
		view := b.View(80)
		assert.Contains(t, view, "Intro")
		assert.Contains(t, view, "x := 1")
		assert.Contains(t, view, "y := 2")
		assert.NotContains(t, view, "```")
	})

	t.Run("width change re-renders", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAnswerBlock(kaoyan.DefaultTheme())
		b.Append(strings.Repeat("word ", 30) + "\n\ntail")
		narrow := b.View(20)
		wide := b.View(200)
		assert.Greater(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		b := bt.NewAnswerBlock(kaoyan.DefaultTheme())
		assert.Empty(t, strings.TrimSpace(b.View(80)))
	})
}

func TestErrorBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "plain",
			err:  errors.New("boom"),
			want: []string{"Error: boom"},
		},
		{
			name: "timeout",
			err:  fmt.Errorf("zhipu: %w", kaoyan.ErrTimeout),
			want: []string{"Error:", "before the deadline"},
		},
		{
			name: "config",
			err:  kaoyan.ErrConfig,
			want: []string{"API key in the config"},
		},
		{
			name: "rejected key",
			err:  &kaoyan.ProviderError{Provider: "zhipu", StatusCode: 401, Message: "bad key"},
			want: []string{"HTTP 401", "rejected"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			view := bt.NewErrorBlock(tt.err, testStyles()).View(80)
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
		})
	}

	t.Run("cancellation has no hint", func(t *testing.T) {
		t.Parallel()

		view := bt.NewErrorBlock(context.Canceled, testStyles()).View(80)
		assert.NotContains(t, view, "\n")
	})
}

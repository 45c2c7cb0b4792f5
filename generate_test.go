package kaoyan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/mock"
	"github.com/fwojciec/kaoyan/separator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var focusClar = []kaoyan.Section{
	{Name: "focus", Separator: "|||FOCUS|||"},
	{Name: "clarification", Separator: "|||CLARIFICATION|||"},
}

func streamingProvider(thinking bool, err error, chunks ...kaoyan.Chunk) *mock.Provider {
	return &mock.Provider{
		StreamFn: func(ctx context.Context, req kaoyan.Request) (kaoyan.Stream, error) {
			return mock.Chunks(err, chunks...), nil
		},
		EmitsThinkingFn: func() bool { return thinking },
	}
}

func TestGenerate_SplitSeparatorAcrossChunks(t *testing.T) {
	t.Parallel()
	c := newClient(streamingProvider(false, nil,
		kaoyan.ChunkContent{Content: "|||FOCUS|||A|||CLAR"},
		kaoyan.ChunkContent{Content: "IFICATION|||B"},
	))

	res, err := c.Generate(context.Background(), zhipu, kaoyan.Request{Prompt: "p"}, separator.New(focusClar))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"focus": "A", "clarification": "B"}, res.Sections)
	assert.Equal(t, "|||FOCUS|||A|||CLARIFICATION|||B", res.Text)
	assert.Equal(t, kaoyan.ThinkingUnsupported, res.ThinkingStatus)
}

func TestGenerate_SectionHandler(t *testing.T) {
	t.Parallel()
	c := newClient(streamingProvider(false, nil,
		kaoyan.ChunkContent{Content: "|||FOCUS|||A"},
		kaoyan.ChunkContent{Content: "a|||CLARIFICATION|||B"},
	))

	type update struct{ name, text string }
	var updates []update
	_, err := c.Generate(context.Background(), zhipu, kaoyan.Request{Prompt: "p"}, separator.New(focusClar),
		kaoyan.WithSectionHandler(func(name, text string) {
			updates = append(updates, update{name, text})
		}),
	)
	require.NoError(t, err)
	require.NotEmpty(t, updates)
	assert.Equal(t, update{"focus", "A"}, updates[0])
	assert.Equal(t, update{"clarification", "B"}, updates[len(updates)-1])
	assert.Contains(t, updates, update{"focus", "Aa"})
}

func TestGenerate_ThinkingStatus(t *testing.T) {
	t.Parallel()

	t.Run("provider with reasoning", func(t *testing.T) {
		t.Parallel()
		c := newClient(streamingProvider(true, nil,
			kaoyan.ChunkThinking{Content: "hmm"},
			kaoyan.ChunkThinking{Content: " ok"},
			kaoyan.ChunkContent{Content: "answer"},
		))
		var statuses []kaoyan.ThinkingStatus
		var chunks []kaoyan.Chunk
		res, err := c.Generate(context.Background(), zhipu, kaoyan.Request{Prompt: "p"}, nil,
			kaoyan.WithThinkingHandler(func(s kaoyan.ThinkingStatus) { statuses = append(statuses, s) }),
			kaoyan.WithChunkHandler(func(c kaoyan.Chunk) { chunks = append(chunks, c) }),
		)
		require.NoError(t, err)
		assert.Equal(t, []kaoyan.ThinkingStatus{kaoyan.ThinkingInProgress, kaoyan.ThinkingComplete}, statuses)
		assert.Equal(t, "hmm ok", res.Thinking)
		assert.Equal(t, "answer", res.Text)
		assert.Nil(t, res.Sections)
		assert.Len(t, chunks, 3)
	})

	t.Run("reasoning only completes at stream end", func(t *testing.T) {
		t.Parallel()
		c := newClient(streamingProvider(true, nil, kaoyan.ChunkThinking{Content: "hmm"}))
		var statuses []kaoyan.ThinkingStatus
		res, err := c.Generate(context.Background(), zhipu, kaoyan.Request{Prompt: "p"}, nil,
			kaoyan.WithThinkingHandler(func(s kaoyan.ThinkingStatus) { statuses = append(statuses, s) }),
		)
		require.NoError(t, err)
		assert.Equal(t, []kaoyan.ThinkingStatus{kaoyan.ThinkingInProgress, kaoyan.ThinkingComplete}, statuses)
		assert.Equal(t, kaoyan.ThinkingComplete, res.ThinkingStatus)
	})

	t.Run("provider without reasoning", func(t *testing.T) {
		t.Parallel()
		c := newClient(streamingProvider(false, nil, kaoyan.ChunkContent{Content: "answer"}))
		var statuses []kaoyan.ThinkingStatus
		_, err := c.Generate(context.Background(), zhipu, kaoyan.Request{Prompt: "p"}, nil,
			kaoyan.WithThinkingHandler(func(s kaoyan.ThinkingStatus) { statuses = append(statuses, s) }),
		)
		require.NoError(t, err)
		assert.Equal(t, []kaoyan.ThinkingStatus{kaoyan.ThinkingUnsupported}, statuses)
	})
}

func TestGenerate_PartialResultOnError(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("connection reset")
	c := newClient(streamingProvider(false, wantErr,
		kaoyan.ChunkContent{Content: "|||FOCUS|||half"},
	))

	res, err := c.Generate(context.Background(), zhipu, kaoyan.Request{Prompt: "p"}, separator.New(focusClar))
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, "|||FOCUS|||half", res.Text)
	assert.Equal(t, "half", res.Sections["focus"])
	assert.Empty(t, res.Sections["clarification"])
}

func TestGenerate_StreamSetupError(t *testing.T) {
	t.Parallel()
	_, err := kaoyan.NewClient(nil).Generate(context.Background(), zhipu, kaoyan.Request{Prompt: "p"}, nil)
	assert.ErrorIs(t, err, kaoyan.ErrConfig)
}

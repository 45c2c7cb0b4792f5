package gemini_test

import (
	"errors"
	"io"
	"iter"
	"testing"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockChunks returns a genai-style streaming iterator from pre-built chunks.
func mockChunks(chunks []*genai.GenerateContentResponse) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

func collectChunks(t *testing.T, s kaoyan.Stream) []kaoyan.Chunk {
	t.Helper()
	var chunks []kaoyan.Chunk
	for {
		c, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, c)
	}
	return chunks
}

func TestStream_TextParts(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(mockChunks([]*genai.GenerateContentResponse{
		textResponse(&genai.Part{Text: "|||FOCUS|||A|||CLAR"}),
		textResponse(&genai.Part{Text: "IFICATION|||B"}),
	}))

	chunks := collectChunks(t, s)
	assert.Equal(t, []kaoyan.Chunk{
		kaoyan.ChunkContent{Content: "|||FOCUS|||A|||CLAR"},
		kaoyan.ChunkContent{Content: "IFICATION|||B"},
	}, chunks)
	assert.Equal(t, kaoyan.StreamStateComplete, s.State())
}

func TestStream_MultiplePartsInOneResponse(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(mockChunks([]*genai.GenerateContentResponse{
		textResponse(&genai.Part{Text: "a"}, &genai.Part{Text: "b"}),
	}))
	assert.Equal(t, []kaoyan.Chunk{
		kaoyan.ChunkContent{Content: "a"},
		kaoyan.ChunkContent{Content: "b"},
	}, collectChunks(t, s))
}

func TestStream_SkipsThoughtsAndEmptyResponses(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(mockChunks([]*genai.GenerateContentResponse{
		{},
		textResponse(&genai.Part{Text: "reasoning", Thought: true}),
		textResponse(&genai.Part{Text: ""}),
		{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}},
		textResponse(&genai.Part{Text: "answer"}),
	}))
	assert.Equal(t, []kaoyan.Chunk{kaoyan.ChunkContent{Content: "answer"}}, collectChunks(t, s))
}

func TestStream_IteratorError(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("connection reset")
	seq := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(textResponse(&genai.Part{Text: "partial"}), nil) {
			return
		}
		yield(nil, wantErr)
	}
	s := gemini.NewStreamFromIter(seq)

	c, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, kaoyan.ChunkContent{Content: "partial"}, c)

	_, err = s.Next()
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, kaoyan.StreamStateError, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, wantErr)
}

func TestStream_APIErrorMapped(t *testing.T) {
	t.Parallel()
	seq := func(yield func(*genai.GenerateContentResponse, error) bool) {
		yield(nil, genai.APIError{Code: 429, Message: "quota exceeded", Status: "RESOURCE_EXHAUSTED"})
	}
	s := gemini.NewStreamFromIter(seq)

	_, err := s.Next()
	var pe *kaoyan.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, kaoyan.ProviderGemini, pe.Provider)
	assert.Equal(t, 429, pe.StatusCode)
	assert.Equal(t, "quota exceeded", pe.Message)
}

func TestStream_Close(t *testing.T) {
	t.Parallel()
	s := gemini.NewStreamFromIter(mockChunks([]*genai.GenerateContentResponse{
		textResponse(&genai.Part{Text: "a"}),
		textResponse(&genai.Part{Text: "b"}),
	}))
	_, err := s.Next()
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.Equal(t, kaoyan.StreamStateClosed, s.State())

	_, err = s.Next()
	assert.ErrorIs(t, err, kaoyan.ErrStreamClosed)
}

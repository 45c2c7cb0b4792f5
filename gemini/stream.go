package gemini

import (
	"fmt"
	"io"
	"iter"

	"github.com/fwojciec/kaoyan"
	"google.golang.org/genai"
)

// stream implements [kaoyan.Stream] by wrapping the genai SDK's streaming
// iterator.
type stream struct {
	pull    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	state   kaoyan.StreamState
	pending []kaoyan.Chunk
	err     error
}

// Interface compliance check.
var _ kaoyan.Stream = (*stream)(nil)

func newStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(seq)
	return &stream{
		pull:  next,
		stop:  stop,
		state: kaoyan.StreamStateNew,
	}
}

// NewStreamFromIter wraps a genai-style iterator. Exported for testing.
func NewStreamFromIter(seq iter.Seq2[*genai.GenerateContentResponse, error]) kaoyan.Stream {
	return newStream(seq)
}

func (s *stream) Next() (kaoyan.Chunk, error) {
	switch s.state {
	case kaoyan.StreamStateComplete:
		return nil, io.EOF
	case kaoyan.StreamStateError:
		return nil, s.err
	case kaoyan.StreamStateClosed:
		return nil, fmt.Errorf("gemini: %w", kaoyan.ErrStreamClosed)
	}

	for {
		if len(s.pending) > 0 {
			c := s.pending[0]
			s.pending = s.pending[1:]
			s.state = kaoyan.StreamStateStreaming
			return c, nil
		}

		resp, err, ok := s.pull()
		if !ok {
			s.state = kaoyan.StreamStateComplete
			s.stop()
			return nil, io.EOF
		}
		if err != nil {
			s.state = kaoyan.StreamStateError
			s.err = mapError(err)
			s.stop()
			return nil, s.err
		}
		s.pending = append(s.pending, chunksOf(resp)...)
	}
}

// chunksOf returns one ChunkContent per non-empty, non-thought text part.
func chunksOf(resp *genai.GenerateContentResponse) []kaoyan.Chunk {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var chunks []kaoyan.Chunk
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		chunks = append(chunks, kaoyan.ChunkContent{Content: p.Text})
	}
	return chunks
}

func (s *stream) State() kaoyan.StreamState {
	return s.state
}

func (s *stream) Close() error {
	if s.state != kaoyan.StreamStateComplete && s.state != kaoyan.StreamStateError {
		s.state = kaoyan.StreamStateClosed
	}
	s.stop()
	return nil
}

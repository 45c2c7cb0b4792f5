package mock

import (
	"io"

	"github.com/fwojciec/kaoyan"
)

// Interface compliance check.
var _ kaoyan.Stream = (*Stream)(nil)

// Stream is a test double for kaoyan.Stream.
// NextFn panics when nil to catch missing setup. CloseFn and StateFn are
// nil-safe (no-op and zero value) because test code commonly calls
// defer stream.Close().
type Stream struct {
	NextFn  func() (kaoyan.Chunk, error)
	StateFn func() kaoyan.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (kaoyan.Chunk, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() kaoyan.StreamState {
	if s.StateFn == nil {
		return kaoyan.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Chunks returns a Stream that yields chunks in order and then io.EOF, or
// err in place of io.EOF when err is non-nil.
func Chunks(err error, chunks ...kaoyan.Chunk) *Stream {
	i := 0
	state := kaoyan.StreamStateNew
	s := &Stream{}
	s.NextFn = func() (kaoyan.Chunk, error) {
		if i < len(chunks) {
			c := chunks[i]
			i++
			state = kaoyan.StreamStateStreaming
			return c, nil
		}
		if err != nil {
			state = kaoyan.StreamStateError
			return nil, err
		}
		state = kaoyan.StreamStateComplete
		return nil, io.EOF
	}
	s.StateFn = func() kaoyan.StreamState { return state }
	return s
}

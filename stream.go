package kaoyan

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving chunks.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// String returns a lowercase name for the state.
func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream is a lazy, single-consumption, pull-based sequence of chunks.
// Cancellation flows through the context passed to Provider.Stream().
//
// Next returns io.EOF when the provider signals completion. Errors are
// sticky: once Next returns a non-EOF error, every later call returns the
// same error. Next after Close returns ErrStreamClosed.
//
// Chunks are returned in the order the transport delivers them; a Stream
// never duplicates, merges or reorders them.
type Stream interface {
	Next() (Chunk, error)
	State() StreamState
	Close() error
}

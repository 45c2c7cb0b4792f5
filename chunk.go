package kaoyan

// Chunk is a sealed interface for one incremental unit of streamed text.
// Chunks carry no transport state; errors come from Stream.Next.
// The unexported marker method prevents external implementations.
type Chunk interface {
	chunk()
}

// ChunkThinking is a fragment of the provider's exposed reasoning trace.
type ChunkThinking struct {
	Content string
}

func (ChunkThinking) chunk() {}

// ChunkContent is a fragment of the answer text.
type ChunkContent struct {
	Content string
}

func (ChunkContent) chunk() {}

// Interface compliance checks.
var (
	_ Chunk = ChunkThinking{}
	_ Chunk = ChunkContent{}
)

// ChunkText returns the text carried by c, or "" for a nil chunk.
func ChunkText(c Chunk) string {
	switch c := c.(type) {
	case ChunkThinking:
		return c.Content
	case ChunkContent:
		return c.Content
	default:
		return ""
	}
}

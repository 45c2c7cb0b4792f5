package kaoyan

// ThinkingStatus reports the reasoning phase of a streaming generation.
// It separates "the provider never reasons aloud" from "reasoning finished".
type ThinkingStatus int

const (
	ThinkingUnsupported ThinkingStatus = iota // Provider never emits ChunkThinking.
	ThinkingInProgress                        // No content has arrived yet.
	ThinkingComplete                          // First content chunk seen, or stream ended.
)

func (s ThinkingStatus) String() string {
	switch s {
	case ThinkingUnsupported:
		return "unsupported"
	case ThinkingInProgress:
		return "in progress"
	case ThinkingComplete:
		return "complete"
	default:
		return "unknown"
	}
}

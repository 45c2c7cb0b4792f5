package kaoyan

import (
	"encoding/json"
	"time"
)

// DefaultTimeout bounds a single-shot call, and the wait for the first
// non-empty chunk of a streaming call.
const DefaultTimeout = 20 * time.Second

// Request carries the prompt and generation parameters.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Prompt string

	// Schema is a JSON schema the response should follow. Complete asks the
	// provider for its native JSON output mode; Stream treats it as advisory.
	Schema json.RawMessage

	Model       string        // model ID, provider-specific; empty = provider default
	Temperature *float64      // nil = provider default
	Timeout     time.Duration // 0 = DefaultTimeout
}

// EffectiveTimeout returns Timeout, or DefaultTimeout when unset.
func (r Request) EffectiveTimeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

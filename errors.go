package kaoyan

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or entry failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrTimeout indicates no response, or no first chunk, arrived before
	// the deadline.
	ErrTimeout = errors.New("timeout")

	// ErrConfig indicates the selected provider is not configured or its
	// credential is missing or undecodable.
	ErrConfig = errors.New("config error")

	// ErrNotFound indicates a key is absent from the Store.
	ErrNotFound = errors.New("not found")

	// ErrNotEnoughEntries indicates the mood journal is too short to summarize.
	ErrNotEnoughEntries = errors.New("not enough entries")

	// ErrEmptyDraft indicates the model returned no content for a draft
	// that a later step depends on.
	ErrEmptyDraft = errors.New("empty draft")
)

// ProviderError is a non-success response from a provider backend, or an
// error payload embedded in its stream.
type ProviderError struct {
	Provider   ProviderName
	StatusCode int // 0 for in-stream errors
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
}

// ParseError is returned when response text expected to be JSON cannot be
// decoded, even after repair.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

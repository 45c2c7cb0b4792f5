package kaoyan

import (
	"context"
	"fmt"
)

// Provider is a strategy pattern interface for LLM providers.
//
// Complete returns the full response text of a single-shot request. Stream
// starts a streaming request; the returned Stream is owned by the caller and
// must be closed. EmitsThinking reports whether the provider ever produces
// ChunkThinking.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (Stream, error)
	EmitsThinking() bool
}

// ProviderName identifies one of the configured LLM backends.
type ProviderName string

const (
	ProviderGemini ProviderName = "gemini"
	ProviderZhipu  ProviderName = "zhipu"
)

// DefaultProvider is used when no valid preference is stored.
const DefaultProvider = ProviderZhipu

// ProviderNames lists every known provider in display order.
func ProviderNames() []ProviderName {
	return []ProviderName{ProviderGemini, ProviderZhipu}
}

// Valid reports whether n names a known provider.
func (n ProviderName) Valid() bool {
	switch n {
	case ProviderGemini, ProviderZhipu:
		return true
	default:
		return false
	}
}

// ParseProviderName converts s to a ProviderName.
func ParseProviderName(s string) (ProviderName, error) {
	n := ProviderName(s)
	if !n.Valid() {
		return "", fmt.Errorf("unknown provider %q: must be %q or %q: %w", s, ProviderGemini, ProviderZhipu, ErrValidation)
	}
	return n, nil
}

// ProviderConfig selects the backend for one generation call. Callers that
// want the user's last choice read it once from Preferences and pass it down.
type ProviderConfig struct {
	Provider ProviderName
	Model    string // empty = provider default
}

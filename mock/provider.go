// Package mock provides test doubles for kaoyan interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/kaoyan"
)

// Interface compliance check.
var _ kaoyan.Provider = (*Provider)(nil)

// Provider is a test double for kaoyan.Provider.
// Set CompleteFn or StreamFn before calling the matching method.
// EmitsThinking returns false when EmitsThinkingFn is nil.
type Provider struct {
	CompleteFn      func(ctx context.Context, req kaoyan.Request) (string, error)
	StreamFn        func(ctx context.Context, req kaoyan.Request) (kaoyan.Stream, error)
	EmitsThinkingFn func() bool
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req kaoyan.Request) (string, error) {
	return p.CompleteFn(ctx, req)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, req kaoyan.Request) (kaoyan.Stream, error) {
	return p.StreamFn(ctx, req)
}

// EmitsThinking delegates to EmitsThinkingFn.
func (p *Provider) EmitsThinking() bool {
	if p.EmitsThinkingFn == nil {
		return false
	}
	return p.EmitsThinkingFn()
}

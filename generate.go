package kaoyan

import (
	"context"
	"io"
	"strings"
)

// GenerateOption configures a single Generate invocation.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	onChunk    func(Chunk)
	onSection  func(name, text string)
	onThinking func(ThinkingStatus)
}

// WithChunkHandler sets a callback that receives each chunk in arrival order.
func WithChunkHandler(h func(Chunk)) GenerateOption {
	return func(c *generateConfig) { c.onChunk = h }
}

// WithSectionHandler sets a callback that receives a section's full text
// every time it grows.
func WithSectionHandler(h func(name, text string)) GenerateOption {
	return func(c *generateConfig) { c.onSection = h }
}

// WithThinkingHandler sets a callback that receives the initial
// ThinkingStatus and every later change.
func WithThinkingHandler(h func(ThinkingStatus)) GenerateOption {
	return func(c *generateConfig) { c.onThinking = h }
}

// Result is the assembled output of one streaming generation.
type Result struct {
	Text           string
	Thinking       string
	Sections       map[string]string // nil when no parser was supplied
	ThinkingStatus ThinkingStatus
}

// Generate streams req from the provider selected by pc, feeding content
// chunks through parser (which may be nil) and reporting progress to the
// handlers in opts. On failure it returns the partial result with the error.
func (c *Client) Generate(ctx context.Context, pc ProviderConfig, req Request, parser SectionParser, opts ...GenerateOption) (Result, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	res := Result{ThinkingStatus: ThinkingUnsupported}
	if c.EmitsThinking(pc) {
		res.ThinkingStatus = ThinkingInProgress
	}
	setStatus := func(s ThinkingStatus) {
		res.ThinkingStatus = s
		if cfg.onThinking != nil {
			cfg.onThinking(s)
		}
	}
	setStatus(res.ThinkingStatus)

	notify := func(names []string) {
		if cfg.onSection == nil {
			return
		}
		for _, name := range names {
			cfg.onSection(name, parser.Section(name))
		}
	}

	stream, err := c.Stream(ctx, pc, req)
	if err != nil {
		return res, err
	}
	defer stream.Close()

	var text, thinking strings.Builder
	var streamErr error
	for {
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		if cfg.onChunk != nil {
			cfg.onChunk(chunk)
		}
		switch ch := chunk.(type) {
		case ChunkThinking:
			thinking.WriteString(ch.Content)
		case ChunkContent:
			if res.ThinkingStatus == ThinkingInProgress {
				setStatus(ThinkingComplete)
			}
			text.WriteString(ch.Content)
			if parser != nil {
				notify(parser.Feed(ch.Content))
			}
		}
	}

	if parser != nil {
		notify(parser.Flush())
		res.Sections = parser.Sections()
	}
	if res.ThinkingStatus == ThinkingInProgress {
		setStatus(ThinkingComplete)
	}
	res.Text = text.String()
	res.Thinking = thinking.String()
	return res, streamErr
}

package kaoyan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client routes generation calls to the provider named by a ProviderConfig.
// It owns the timeout policy: a single-shot call must finish within the
// request timeout, a streaming call must produce its first non-empty chunk
// within it. Client does not retry.
type Client struct {
	providers map[ProviderName]Provider
	logger    *slog.Logger
	newID     func() string
	timeout   time.Duration
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithLogger sets the logger for request lifecycle records.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithRequestIDs overrides the request ID generator. Useful for tests.
func WithRequestIDs(fn func() string) ClientOption {
	return func(c *Client) { c.newID = fn }
}

// WithDefaultTimeout sets the timeout for requests that leave
// Request.Timeout unset. Zero keeps DefaultTimeout.
func WithDefaultTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client over the configured providers. Providers absent
// from the map (or nil) produce ErrConfig when selected.
func NewClient(providers map[ProviderName]Provider, opts ...ClientOption) *Client {
	c := &Client{
		providers: maps.Clone(providers),
		logger:    slog.New(slog.DiscardHandler),
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// EmitsThinking reports whether the provider selected by pc produces
// ChunkThinking. It is false for unconfigured providers.
func (c *Client) EmitsThinking(pc ProviderConfig) bool {
	p, err := c.provider(pc.Provider)
	if err != nil {
		return false
	}
	return p.EmitsThinking()
}

// Complete sends a single-shot request and returns the full response text.
func (c *Client) Complete(ctx context.Context, pc ProviderConfig, req Request) (string, error) {
	p, req, err := c.prepare(pc, req)
	if err != nil {
		return "", err
	}
	log := c.requestLogger(pc, req)
	start := time.Now()

	tctx, cancel := context.WithTimeout(ctx, req.EffectiveTimeout())
	defer cancel()

	text, err := p.Complete(tctx, req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%s: no response within %s: %w", pc.Provider, req.EffectiveTimeout(), ErrTimeout)
		}
		log.Warn("complete failed", "duration", time.Since(start), "error", err)
		return "", err
	}
	log.Debug("complete", "duration", time.Since(start), "bytes", len(text))
	return text, nil
}

// Stream starts a streaming request. The returned Stream fails with
// ErrTimeout if no non-empty chunk arrives within the request timeout; once
// one has arrived, the stream runs until the provider finishes or ctx is
// cancelled.
func (c *Client) Stream(ctx context.Context, pc ProviderConfig, req Request) (Stream, error) {
	p, req, err := c.prepare(pc, req)
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithCancel(ctx)
	g := &guardedStream{
		provider: pc.Provider,
		timeout:  req.EffectiveTimeout(),
		cancel:   cancel,
		logger:   c.requestLogger(pc, req),
		start:    time.Now(),
	}
	g.timer = time.AfterFunc(g.timeout, g.fire)

	inner, err := p.Stream(sctx, req)
	if err != nil {
		fired := !g.disarm()
		cancel()
		if fired {
			err = g.timeoutErr()
		}
		g.logger.Warn("stream failed", "duration", time.Since(g.start), "error", err)
		return nil, err
	}
	g.inner = inner
	g.logger.Debug("stream started")
	return g, nil
}

func (c *Client) prepare(pc ProviderConfig, req Request) (Provider, Request, error) {
	p, err := c.provider(pc.Provider)
	if err != nil {
		return nil, req, err
	}
	if req.Model == "" {
		req.Model = pc.Model
	}
	if req.Timeout <= 0 {
		req.Timeout = c.timeout
	}
	if err := req.Validate(); err != nil {
		return nil, req, err
	}
	return p, req, nil
}

func (c *Client) provider(name ProviderName) (Provider, error) {
	p := c.providers[name]
	if p == nil {
		return nil, fmt.Errorf("provider %q is not configured: %w", name, ErrConfig)
	}
	return p, nil
}

func (c *Client) requestLogger(pc ProviderConfig, req Request) *slog.Logger {
	return c.logger.With("request_id", c.newID(), "provider", string(pc.Provider), "model", req.Model)
}

type guardState int

const (
	guardArmed guardState = iota
	guardDisarmed
	guardFired
)

// guardedStream enforces the first-chunk timeout over a provider stream.
type guardedStream struct {
	inner    Stream
	provider ProviderName
	timeout  time.Duration
	cancel   context.CancelFunc
	timer    *time.Timer
	logger   *slog.Logger
	start    time.Time

	mu    sync.Mutex
	guard guardState

	state  StreamState
	err    error
	chunks int
}

// Interface compliance check.
var _ Stream = (*guardedStream)(nil)

func (g *guardedStream) fire() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.guard != guardArmed {
		return
	}
	g.guard = guardFired
	g.cancel()
}

// disarm stops the first-chunk timer. It reports false if the timer fired.
func (g *guardedStream) disarm() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.guard == guardArmed {
		g.guard = guardDisarmed
		g.timer.Stop()
	}
	return g.guard != guardFired
}

func (g *guardedStream) timeoutErr() error {
	return fmt.Errorf("%s: no output within %s: %w", g.provider, g.timeout, ErrTimeout)
}

func (g *guardedStream) Next() (Chunk, error) {
	switch g.state {
	case StreamStateComplete:
		return nil, io.EOF
	case StreamStateError:
		return nil, g.err
	case StreamStateClosed:
		return nil, ErrStreamClosed
	}

	for {
		chunk, err := g.inner.Next()
		if err != nil {
			if !g.disarm() {
				err = g.timeoutErr()
			}
			return nil, g.terminate(err)
		}
		if ChunkText(chunk) == "" {
			continue
		}
		// A chunk that raced the timer is dropped.
		if !g.disarm() {
			return nil, g.terminate(g.timeoutErr())
		}
		g.state = StreamStateStreaming
		g.chunks++
		return chunk, nil
	}
}

func (g *guardedStream) terminate(err error) error {
	g.cancel()
	if err == io.EOF {
		g.state = StreamStateComplete
		g.logger.Debug("stream complete", "duration", time.Since(g.start), "chunks", g.chunks)
		return io.EOF
	}
	g.state = StreamStateError
	g.err = err
	g.logger.Warn("stream failed", "duration", time.Since(g.start), "chunks", g.chunks, "error", err)
	return err
}

func (g *guardedStream) State() StreamState {
	return g.state
}

// Close aborts the request if it is still running and releases the
// underlying stream.
func (g *guardedStream) Close() error {
	g.disarm()
	g.cancel()
	if g.state != StreamStateComplete && g.state != StreamStateError {
		g.state = StreamStateClosed
	}
	return g.inner.Close()
}

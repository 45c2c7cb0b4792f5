package zhipu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fwojciec/kaoyan"
)

// Interface compliance check.
var _ kaoyan.Provider = (*Client)(nil)

// Client implements [kaoyan.Provider] for the Zhipu GLM API.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *slog.Logger
	onFrame     func(string)
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithModel sets the default model ID. Default is glm-4.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithLogger sets the logger used for skipped stream frames.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithFrameHandler sets a callback that receives every raw stream line
// before it is decoded.
func WithFrameHandler(h func(line string)) Option {
	return func(c *Client) { c.onFrame = h }
}

// New creates a new Zhipu [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		model:       defaultModel,
		temperature: defaultTemperature,
		httpClient:  http.DefaultClient,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// EmitsThinking reports true: GLM streams expose reasoning_content.
func (c *Client) EmitsThinking() bool { return true }

// Complete sends a non-streaming request and returns the answer text.
// A request schema switches the response to JSON object mode.
func (c *Client) Complete(ctx context.Context, req kaoyan.Request) (string, error) {
	resp, err := c.do(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("zhipu: decode response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", &kaoyan.ProviderError{Provider: kaoyan.ProviderZhipu, StatusCode: resp.StatusCode, Message: "response has no choices"}
	}
	return body.Choices[0].Message.Content, nil
}

// Stream sends a streaming request and returns a [kaoyan.Stream] of
// normalized chunks. The schema hint is not sent on this path.
func (c *Client) Stream(ctx context.Context, req kaoyan.Request) (kaoyan.Stream, error) {
	resp, err := c.do(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return newStream(resp.Body, c.logger, c.onFrame), nil
}

func (c *Client) do(ctx context.Context, req kaoyan.Request, stream bool) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("zhipu: missing API key: %w", kaoyan.ErrConfig)
	}
	body, err := c.buildRequestBody(req, stream)
	if err != nil {
		return nil, fmt.Errorf("zhipu: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("zhipu: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("zhipu: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return resp, nil
}

func (c *Client) buildRequestBody(req kaoyan.Request, stream bool) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	apiReq := apiRequest{
		Model:       model,
		Messages:    []apiMessage{{Role: "user", Content: req.Prompt}},
		Stream:      stream,
		Temperature: temperature,
	}
	if stream {
		apiReq.Thinking = &apiThinking{Type: "enabled"}
	} else if len(req.Schema) > 0 {
		apiReq.ResponseFormat = &apiResponseFormat{Type: "json_object"}
	}
	return json.Marshal(apiReq)
}

func parseHTTPError(resp *http.Response) error {
	pe := &kaoyan.ProviderError{Provider: kaoyan.ProviderZhipu, StatusCode: resp.StatusCode}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		pe.Message = fmt.Sprintf("failed to read body: %v", err)
		return pe
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		pe.Message = string(bytes.TrimSpace(body))
		return pe
	}
	pe.Message = apiErr.Error.String()
	return pe
}

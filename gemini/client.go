package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fwojciec/kaoyan"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ kaoyan.Provider = (*Client)(nil)

// Client implements [kaoyan.Provider] for the Google Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	baseURL string
	hc      *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL overrides the API endpoint. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: missing API key: %w", kaoyan.ErrConfig)
	}
	c := &Client{model: defaultModel}
	for _, o := range opts {
		o(c)
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.hc,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// EmitsThinking reports false: thought parts are never surfaced.
func (c *Client) EmitsThinking() bool { return false }

// Complete sends a single-shot request. A request schema switches the
// response to JSON mode constrained by that schema.
func (c *Client) Complete(ctx context.Context, req kaoyan.Request) (string, error) {
	config, err := BuildConfig(req, true)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.modelFor(req), genai.Text(req.Prompt), config)
	if err != nil {
		return "", mapError(err)
	}
	return responseText(resp), nil
}

// Stream sends a streaming request and returns a [kaoyan.Stream]. The
// schema hint is not sent on this path.
func (c *Client) Stream(ctx context.Context, req kaoyan.Request) (kaoyan.Stream, error) {
	config, err := BuildConfig(req, false)
	if err != nil {
		return nil, err
	}
	seq := c.client.Models.GenerateContentStream(ctx, c.modelFor(req), genai.Text(req.Prompt), config)
	return newStream(seq), nil
}

func (c *Client) modelFor(req kaoyan.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

// BuildConfig converts request parameters to a genai config. The schema is
// applied only when structured is true.
// Exported for testing.
func BuildConfig(req kaoyan.Request, structured bool) (*genai.GenerateContentConfig, error) {
	temp := float32(defaultTemperature)
	if req.Temperature != nil {
		temp = float32(*req.Temperature)
	}
	config := &genai.GenerateContentConfig{Temperature: &temp}

	if structured && len(req.Schema) > 0 {
		var schema map[string]any
		if err := json.Unmarshal(req.Schema, &schema); err != nil {
			return nil, fmt.Errorf("gemini: schema: %w", err)
		}
		config.ResponseMIMEType = jsonMIMEType
		config.ResponseJsonSchema = schema
	}
	return config, nil
}

// responseText concatenates the non-thought text parts of the first
// candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// mapError converts SDK API errors to [kaoyan.ProviderError]. Other errors,
// including context errors, are wrapped unchanged.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &kaoyan.ProviderError{Provider: kaoyan.ProviderGemini, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &kaoyan.ProviderError{Provider: kaoyan.ProviderGemini, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return fmt.Errorf("gemini: %w", err)
}

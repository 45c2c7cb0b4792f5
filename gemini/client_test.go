package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/kaoyan"
	"github.com/fwojciec/kaoyan/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := gemini.BuildConfig(kaoyan.Request{Prompt: "hi"}, true)
	require.NoError(t, err)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.8, *cfg.Temperature, 1e-6)
	assert.Empty(t, cfg.ResponseMIMEType)
	assert.Nil(t, cfg.ResponseJsonSchema)
}

func TestBuildConfig_Schema(t *testing.T) {
	t.Parallel()
	temp := 0.3
	req := kaoyan.Request{
		Prompt:      "analyze",
		Schema:      json.RawMessage(`{"type":"object","properties":{"sentence":{"type":"string"}}}`),
		Temperature: &temp,
	}

	t.Run("single-shot requests JSON mode", func(t *testing.T) {
		t.Parallel()
		cfg, err := gemini.BuildConfig(req, true)
		require.NoError(t, err)
		assert.Equal(t, "application/json", cfg.ResponseMIMEType)
		schema, ok := cfg.ResponseJsonSchema.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "object", schema["type"])
		assert.InDelta(t, 0.3, *cfg.Temperature, 1e-6)
	})

	t.Run("streaming ignores schema", func(t *testing.T) {
		t.Parallel()
		cfg, err := gemini.BuildConfig(req, false)
		require.NoError(t, err)
		assert.Empty(t, cfg.ResponseMIMEType)
		assert.Nil(t, cfg.ResponseJsonSchema)
	})
}

func TestNew_MissingAPIKey(t *testing.T) {
	t.Parallel()
	_, err := gemini.New(context.Background(), "")
	assert.ErrorIs(t, err, kaoyan.ErrConfig)
}

func TestClient_EmitsThinking(t *testing.T) {
	t.Parallel()
	c, err := gemini.New(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, c.EmitsThinking())
}

func TestClient_OverHTTP(t *testing.T) {
	t.Parallel()

	var paths []string
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		bodies = append(bodies, body)

		if strings.Contains(r.URL.Path, "streamGenerateContent") {
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte(`data: {"candidates":[{"content":{"role":"model","parts":[{"text":"Hel"}]}}]}` + "\n\n"))
			_, _ = w.Write([]byte(`data: {"candidates":[{"content":{"role":"model","parts":[{"text":"lo"}]},"finishReason":"STOP"}]}` + "\n\n"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c, err := gemini.New(context.Background(), "test-key", gemini.WithBaseURL(srv.URL), gemini.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), kaoyan.Request{Prompt: "say hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)

	s, err := c.Stream(context.Background(), kaoyan.Request{Prompt: "say hello"})
	require.NoError(t, err)
	defer s.Close()

	var streamed strings.Builder
	for _, ch := range collectChunks(t, s) {
		streamed.WriteString(kaoyan.ChunkText(ch))
	}
	assert.Equal(t, text, streamed.String())

	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "gemini-2.5-flash:generateContent")
	assert.Contains(t, paths[1], "gemini-2.5-flash:streamGenerateContent")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	c, err := gemini.New(context.Background(), "bad", gemini.WithBaseURL(srv.URL), gemini.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), kaoyan.Request{Prompt: "hi"})
	var pe *kaoyan.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, "API key not valid", pe.Message)
}

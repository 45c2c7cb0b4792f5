// Package zhipu implements [kaoyan.Provider] for the Zhipu GLM chat
// completions API.
//
// Requests use the OpenAI-style {model, messages, stream, response_format}
// body. Streaming responses are newline-delimited "data: {json}" frames
// terminated by "data: [DONE]"; reasoning_content deltas become
// [kaoyan.ChunkThinking] and content deltas [kaoyan.ChunkContent].
package zhipu

import "fmt"

const (
	defaultBaseURL     = "https://open.bigmodel.cn/api/paas/v4"
	defaultModel       = "glm-4.5-flash"
	defaultTemperature = 0.7
	completionsPath    = "/chat/completions"
	doneMarker         = "[DONE]"
	maxLineSize        = 1024 * 1024
)

// apiRequest is the JSON body sent to the chat completions endpoint.
type apiRequest struct {
	Model          string             `json:"model"`
	Messages       []apiMessage       `json:"messages"`
	Stream         bool               `json:"stream"`
	Temperature    float64            `json:"temperature"`
	ResponseFormat *apiResponseFormat `json:"response_format,omitempty"`
	Thinking       *apiThinking       `json:"thinking,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponseFormat struct {
	Type string `json:"type"` // "json_object"
}

type apiThinking struct {
	Type string `json:"type"` // "enabled" | "disabled"
}

// apiResponse is the non-streaming response body.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// apiStreamFrame is the payload of one "data:" line.
type apiStreamFrame struct {
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

// apiError.Code is usually a numeric string such as "1113" but is not
// guaranteed to be a string.
type apiError struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

func (e apiError) String() string {
	if e.Code == nil || e.Code == "" {
		return e.Message
	}
	return fmt.Sprint(e.Code) + ": " + e.Message
}

package kaoyan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Annotation types used in essay corrections.
const (
	AnnotationGood       = "GOOD"
	AnnotationError      = "ERROR"
	AnnotationSuggestion = "SUGGESTION"
)

// Time limits of the two correction steps.
const (
	CorrectionDraftTimeout  = 60 * time.Second
	CorrectionFormatTimeout = 15 * time.Second
)

// Annotation is a comment on an exact span of the essay.
type Annotation struct {
	Text        string `json:"text"`
	Type        string `json:"type"`
	Explanation string `json:"explanation"`
}

// Correction is the graded result of an essay correction.
type Correction struct {
	OverallScore float64      `json:"overallScore"` // out of 20
	ScoreBasis   string       `json:"scoreBasis"`
	Annotations  []Annotation `json:"annotations"`
}

// CorrectionSchema is the JSON schema requested from the formatting step.
var CorrectionSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "overallScore": {"type": "number"},
    "scoreBasis": {"type": "string"},
    "annotations": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {"type": "string"},
          "type": {"type": "string", "enum": ["GOOD", "ERROR", "SUGGESTION"]},
          "explanation": {"type": "string"}
        },
        "required": ["text", "type", "explanation"]
      }
    }
  },
  "required": ["overallScore", "scoreBasis", "annotations"]
}`)

// CorrectEssay grades an exam essay in two steps. A streamed draft report is
// generated first, with opts receiving its chunks and thinking progress. A
// second, schema-constrained call then reduces the draft to clean JSON.
//
// An empty draft fails with ErrEmptyDraft and an undecodable second response
// with *ParseError.
func CorrectEssay(ctx context.Context, client *Client, pc ProviderConfig, essay string, opts ...GenerateOption) (Correction, error) {
	essay = strings.TrimSpace(essay)
	if essay == "" {
		return Correction{}, fmt.Errorf("essay must not be empty: %w", ErrValidation)
	}

	draft, err := client.Generate(ctx, pc, Request{
		Prompt:  fmt.Sprintf(correctionDraftPrompt, essay),
		Timeout: CorrectionDraftTimeout,
	}, nil, opts...)
	if err != nil {
		return Correction{}, fmt.Errorf("essay draft: %w", err)
	}
	if strings.TrimSpace(draft.Text) == "" {
		return Correction{}, fmt.Errorf("essay draft: %w", ErrEmptyDraft)
	}

	text, err := client.Complete(ctx, pc, Request{
		Prompt:  fmt.Sprintf(correctionFormatPrompt, draft.Text),
		Schema:  CorrectionSchema,
		Timeout: CorrectionFormatTimeout,
	})
	if err != nil {
		return Correction{}, fmt.Errorf("essay format: %w", err)
	}
	c, err := DecodeJSON[Correction](text)
	if err != nil {
		return Correction{}, fmt.Errorf("essay format: %w", err)
	}
	return c, nil
}

const correctionDraftPrompt = `You are an English teacher preparing students for China's graduate entrance exam. Grade the essay below.

Essay:
---
%s
---

Structure your answer like a JSON object:
- "overallScore": a score out of 20.
- "scoreBasis": the reasons for the score, in Chinese.
- "annotations": a list of comments, each with "text" (an exact span copied from the essay), "type" (GOOD, ERROR or SUGGESTION) and "explanation" (in Chinese).

Use all three annotation types: praise what works, mark clear mistakes and suggest stylistic improvements. Output only the structured content.`

const correctionFormatPrompt = `Extract the JSON object from the text below. Drop markdown fences and any text before or after the object. Output a single valid JSON object and nothing else.

Input:
---
%s
---`

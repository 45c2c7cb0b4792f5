package kaoyan

import (
	"context"
	"encoding/json"
	"fmt"
)

// SentenceComponent is one grammatical part of an analyzed sentence.
type SentenceComponent struct {
	Text        string `json:"text"`
	Type        string `json:"type"` // one of SentenceComponentTypes
	Explanation string `json:"explanation"`
}

// SentenceComponentTypes lists the grammatical roles a component may take.
var SentenceComponentTypes = []string{
	"subject", "predicate", "object", "attributive", "adverbial",
	"complement", "clause", "phrase", "connective",
}

// SentenceAnalysis is the structured breakdown of a long English sentence.
type SentenceAnalysis struct {
	Sentence    string              `json:"sentence"`
	Translation string              `json:"translation"`
	Components  []SentenceComponent `json:"components"`
}

// SentenceAnalysisSchema is the JSON schema requested from the provider.
var SentenceAnalysisSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "sentence": {"type": "string"},
    "translation": {"type": "string"},
    "components": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {"type": "string"},
          "type": {"type": "string", "enum": ["subject", "predicate", "object", "attributive", "adverbial", "complement", "clause", "phrase", "connective"]},
          "explanation": {"type": "string"}
        },
        "required": ["text", "type", "explanation"]
      }
    }
  },
  "required": ["sentence", "translation", "components"]
}`)

// AnalyzeSentence asks the provider for a structured analysis of sentence.
// If sentence is empty the model picks a sentence itself. Undecodable
// responses fail with *ParseError.
func AnalyzeSentence(ctx context.Context, client *Client, pc ProviderConfig, sentence string) (SentenceAnalysis, error) {
	prompt := sentencePromptPick
	if sentence != "" {
		prompt = fmt.Sprintf(sentencePromptGiven, sentence)
	}
	text, err := client.Complete(ctx, pc, Request{Prompt: prompt, Schema: SentenceAnalysisSchema})
	if err != nil {
		return SentenceAnalysis{}, fmt.Errorf("sentence analysis: %w", err)
	}
	a, err := DecodeJSON[SentenceAnalysis](text)
	if err != nil {
		return SentenceAnalysis{}, fmt.Errorf("sentence analysis: %w", err)
	}
	if sentence != "" && a.Sentence == "" {
		a.Sentence = sentence
	}
	return a, nil
}

const sentenceJSONShape = `Respond with a single JSON object with keys "sentence", "translation" (Chinese) and "components", an array of objects with keys "text", "type" (one of subject, predicate, object, attributive, adverbial, complement, clause, phrase, connective) and "explanation" (Chinese). Output JSON only.`

const sentencePromptGiven = "Analyze the grammatical structure of this English sentence for a Chinese graduate entrance exam student: %q. " + sentenceJSONShape

const sentencePromptPick = "Pick one long, complex English sentence typical of the Chinese graduate entrance exam reading section and analyze its grammatical structure. " + sentenceJSONShape

package kaoyan

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeJSON decodes model output into T. Markdown code fences are stripped;
// if the text still fails to decode, it is repaired (unquoted keys, trailing
// commas, truncated tails) and decoded again. Unrecoverable text yields a
// *ParseError.
func DecodeJSON[T any](text string) (T, error) {
	raw := stripCodeFence(text)

	var v T
	err := json.Unmarshal([]byte(raw), &v)
	if err == nil {
		return v, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil {
		return v, &ParseError{Text: text, Err: err}
	}
	var rv T
	if err := json.Unmarshal([]byte(repaired), &rv); err != nil {
		return rv, &ParseError{Text: text, Err: err}
	}
	return rv, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

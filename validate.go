package kaoyan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt must not be empty: %w", ErrValidation)
	}
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s: %w", r.Timeout, ErrValidation)
	}
	if len(r.Schema) > 0 && !json.Valid(r.Schema) {
		return fmt.Errorf("schema is not valid JSON: %w", ErrValidation)
	}
	return nil
}

// Validate checks that the entry can be stored in the journal.
func (e MoodEntry) Validate() error {
	if _, err := parseDate(e.Date); err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD: %w", e.Date, ErrValidation)
	}
	if e.Mood < MoodAwful || e.Mood > MoodGreat {
		return fmt.Errorf("mood must be in [%d, %d], got %d: %w", MoodAwful, MoodGreat, e.Mood, ErrValidation)
	}
	return nil
}

package kaoyan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store is a persistent string-keyed byte store. Each key is owned by exactly
// one service; concurrent writers to the same key see last-writer-wins.
// Get returns ErrNotFound for absent keys. Delete of an absent key is not an
// error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store keys. Values are JSON documents unless noted.
const (
	KeyProvider         = "ai_model_provider" // raw provider name
	KeyBriefing         = "aiDashboardBriefing"
	KeyQuestion         = "aiDashboardQuestion"
	KeyMoodEntries      = "moodJournalEntries"
	KeyMoodSummary      = "moodJournalSummaryCache"
	KeyBrainstormTopics = "brainstormKeywords"
)

func loadJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// loadJSONOrZero is loadJSON that treats an absent or undecodable value as
// the zero value. Old payloads from a previous format are orphaned.
func loadJSONOrZero(ctx context.Context, s Store, key string, v any) error {
	err := loadJSON(ctx, s, key, v)
	if err == nil || errors.Is(err, ErrNotFound) {
		return nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return nil
	}
	return err
}

func saveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

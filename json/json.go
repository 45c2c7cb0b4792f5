// Package json implements kaoyan.Store as a single JSON document on disk.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// envelope is the v1 wire format of the store file.
type envelope struct {
	Version   int                 `json:"version"`
	UpdatedAt time.Time           `json:"updated_at"`
	Entries   map[string]entryDTO `json:"entries"`
}

// entryDTO is the JSON representation of one value with a type
// discriminator. JSON values are embedded verbatim so the file stays
// readable; anything else is kept as a string.
type entryDTO struct {
	Type      string           `json:"type"`
	JSON      *json.RawMessage `json:"json,omitempty"`
	Text      *string          `json:"text,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Entry is a stored value with its modification time.
type Entry struct {
	Value     []byte
	UpdatedAt time.Time
}

// MarshalSnapshot serializes entries to JSON in v1 envelope format.
func MarshalSnapshot(entries map[string]Entry, updated time.Time) ([]byte, error) {
	env := envelope{
		Version:   1,
		UpdatedAt: updated,
		Entries:   make(map[string]entryDTO, len(entries)),
	}
	for k, e := range entries {
		env.Entries[k] = marshalEntry(e)
	}
	return json.MarshalIndent(env, "", "  ")
}

func marshalEntry(e Entry) entryDTO {
	trimmed := bytes.TrimSpace(e.Value)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		raw := json.RawMessage(bytes.Clone(trimmed))
		return entryDTO{Type: "json", JSON: &raw, UpdatedAt: e.UpdatedAt}
	}
	text := string(e.Value)
	return entryDTO{Type: "text", Text: &text, UpdatedAt: e.UpdatedAt}
}

// UnmarshalSnapshot deserializes entries from JSON in v1 envelope format.
func UnmarshalSnapshot(data []byte) (map[string]Entry, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	entries := make(map[string]Entry, len(env.Entries))
	for k, dto := range env.Entries {
		e, err := unmarshalEntry(dto)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", k, err)
		}
		entries[k] = e
	}
	return entries, nil
}

func unmarshalEntry(dto entryDTO) (Entry, error) {
	switch dto.Type {
	case "json":
		var v []byte
		if dto.JSON != nil {
			v = []byte(*dto.JSON)
		}
		return Entry{Value: v, UpdatedAt: dto.UpdatedAt}, nil
	case "text":
		var v []byte
		if dto.Text != nil {
			v = []byte(*dto.Text)
		}
		return Entry{Value: v, UpdatedAt: dto.UpdatedAt}, nil
	default:
		return Entry{}, fmt.Errorf("unknown entry type: %q", dto.Type)
	}
}

// Save writes entries to a JSON file, creating parent directories as needed.
// The file is replaced atomically.
func Save(path string, entries map[string]Entry, updated time.Time) error {
	data, err := MarshalSnapshot(entries, updated)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads entries from a JSON file.
func Load(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSnapshot(data)
}

package json

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/kaoyan"
)

// Interface compliance check.
var _ kaoyan.Store = (*Store)(nil)

// Store is a kaoyan.Store that keeps every key in memory and rewrites the
// whole file on each change.
type Store struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	entries, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		entries = make(map[string]Entry)
	} else if err != nil {
		return nil, fmt.Errorf("json store: %w", err)
	}
	return &Store{path: path, now: time.Now, entries: entries}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, kaoyan.ErrNotFound)
	}
	return slices.Clone(e.Value), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := maps.Clone(s.entries)
	next[key] = Entry{Value: slices.Clone(value), UpdatedAt: s.now().UTC()}
	return s.commit(next)
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	next := maps.Clone(s.entries)
	delete(next, key)
	return s.commit(next)
}

// commit persists next and makes it current only if the write succeeded.
func (s *Store) commit(next map[string]Entry) error {
	if err := Save(s.path, next, s.now().UTC()); err != nil {
		return fmt.Errorf("json store: %w", err)
	}
	s.entries = next
	return nil
}

// Close is a no-op; every change is already on disk.
func (s *Store) Close() error { return nil }

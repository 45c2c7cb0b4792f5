package mock

import (
	"context"
	"maps"
	"sync"

	"github.com/fwojciec/kaoyan"
)

// Interface compliance check.
var _ kaoyan.Store = (*Store)(nil)

// Store is a test double for kaoyan.Store.
// Set the function fields for the methods you need.
type Store struct {
	GetFn    func(ctx context.Context, key string) ([]byte, error)
	SetFn    func(ctx context.Context, key string, value []byte) error
	DeleteFn func(ctx context.Context, key string) error
}

// Get delegates to GetFn.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return s.GetFn(ctx, key)
}

// Set delegates to SetFn.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetFn(ctx, key, value)
}

// Delete delegates to DeleteFn.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.DeleteFn(ctx, key)
}

// MemoryStore is a map-backed kaoyan.Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// Interface compliance check.
var _ kaoyan.Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, kaoyan.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Snapshot returns a copy of the stored values.
func (m *MemoryStore) Snapshot() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data)
}

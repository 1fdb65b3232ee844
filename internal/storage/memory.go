package storage

import (
	"context"
	"sync"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// MemoryStore keeps the collection in process memory. RWMutex lets many
// readers load concurrently while Save takes the write lock.
type MemoryStore struct {
	mu      sync.RWMutex
	records model.Collection
	saves   int
}

// NewMemoryStore constructs a MemoryStore seeded with a copy of initial.
func NewMemoryStore(initial model.Collection) *MemoryStore {
	return &MemoryStore{records: clone(initial)}
}

// Load returns a deep copy so callers cannot mutate stored state.
func (m *MemoryStore) Load(ctx context.Context) model.Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.records)
}

// Save replaces the stored collection.
func (m *MemoryStore) Save(ctx context.Context, c model.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = clone(c)
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

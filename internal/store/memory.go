package store

import (
	"context"
	"sync"

	"github.com/serroba/paygate-demo-go/internal/shortlink"
)

// MemoryStore is an in-memory implementation of shortlink.Repository.
// It is explicitly ephemeral: entries vanish on process restart, and there
// is no eviction, TTL, or size bound.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]shortlink.Link
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[string]shortlink.Link),
	}
}

func (m *MemoryStore) Save(_ context.Context, link *shortlink.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links[link.Code] = *link

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code string) (*shortlink.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	return &link, nil
}

func (m *MemoryStore) Exists(_ context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[code]

	return ok, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links = make(map[string]shortlink.Link)

	return nil
}

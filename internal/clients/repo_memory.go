package clients

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	clients []Client
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) List(ctx context.Context) ([]Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Client, len(s.clients))
	copy(out, s.clients)
	return out, nil
}

// Add appends a client; used by the review memory store.
func (s *MemoryStore) Add(c Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, c)
}

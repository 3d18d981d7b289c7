package persistence

import (
	"context"
	"sync"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// MemorySnapshotStore keeps snapshots in process memory. Contents are lost on restart.
type MemorySnapshotStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySnapshotStore creates an empty store
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{data: make(map[string][]byte)}
}

func (s *MemorySnapshotStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemorySnapshotStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemorySnapshotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Ping always succeeds
func (s *MemorySnapshotStore) Ping(context.Context) error {
	return nil
}

// Close is a no-op
func (s *MemorySnapshotStore) Close() error {
	return nil
}

var _ cart.SnapshotStore = (*MemorySnapshotStore)(nil)

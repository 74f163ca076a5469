package offsets

import (
	"context"
	"maps"
	"sync"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/geom"
)

// MemoryStore keeps offsets in a map.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]geom.Offset
	closed bool
}

// NewMemoryStore returns an empty store, optionally seeded.
func NewMemoryStore(seed map[string]geom.Offset) *MemoryStore {
	data := make(map[string]geom.Offset, len(seed))
	maps.Copy(data, seed)
	return &MemoryStore{data: data}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (geom.Offset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return geom.Offset{}, ErrClosed
	}
	return s.data[key], nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, o geom.Offset) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data[key] = o
	return nil
}

func (s *MemoryStore) All(ctx context.Context) (map[string]geom.Offset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	return maps.Clone(s.data), nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)

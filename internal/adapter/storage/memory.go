package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/niksmo/custom-tee/internal/core/port"
)

var _ port.KVStorage = (*MemoryStorage)(nil)

// A MemoryStorage keeps records in process memory. Records are lost on exit.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string][]byte)}
}

func (s *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "MemoryStorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", op, key, port.ErrNotFound)
	}
	return slices.Clone(v), nil
}

func (s *MemoryStorage) Put(ctx context.Context, key string, value []byte) error {
	const op = "MemoryStorage.Put"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = slices.Clone(value)
	return nil
}

func (s *MemoryStorage) Close() {}

package kv

import (
	"context"
	"sync"
)

// MemoryRepository keeps values in a map guarded by a mutex. Values are
// copied on the way in and out.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return clone(v), nil
}

func (r *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = clone(value)
	return nil
}

func (r *MemoryRepository) SetMany(_ context.Context, values map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range values {
		r.data[k] = clone(v)
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, key)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

package blob

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns a process-local store, used in tests and when no
// durable driver is configured.
func NewMemory() Repository {
	return &memoryRepo{data: make(map[string]string)}
}

func (r *memoryRepo) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[key]
	return v, ok, nil
}

func (r *memoryRepo) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	r.data[key] = value
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Ping(context.Context) error {
	return nil
}

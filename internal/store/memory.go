package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store for tests and local runs.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func key(bucket, object string) string {
	return bucket + "/" + object
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, bucket, object string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key(bucket, object)]
	if !ok {
		return nil, fmt.Errorf("Get: object %s/%s not found", bucket, object)
	}
	return append([]byte(nil), data...), nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key(bucket, object)] = append([]byte(nil), data...)
	return nil
}

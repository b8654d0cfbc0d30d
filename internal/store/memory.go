package store

import (
	"sync"

	"github.com/mesh-intelligence/malleable/pkg/types"
)

// Compile-time interface check: Memory must implement Store.
var _ types.Store = (*Memory)(nil)

// Memory is an in-memory Store. It backs the "memory" config backend
// and lets the repositories be tested without touching disk.
type Memory struct {
	mu     sync.RWMutex
	closed bool
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value for key and whether it was present.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, types.ErrStoreClosed
	}
	if key == "" {
		return "", false, types.ErrKeyEmpty
	}
	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrKeyEmpty
	}
	m.values[key] = value
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrStoreClosed
	}
	if key == "" {
		return types.ErrKeyEmpty
	}
	delete(m.values, key)
	return nil
}

// Close marks the store closed. Idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

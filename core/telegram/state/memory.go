package state

import "sync"

// Memory is a mutex-guarded in-process Store. Entries never expire.
type Memory[K comparable, V any] struct {
	mu       sync.RWMutex
	sessions map[K]V
}

// NewMemory constructs an empty in-memory store.
func NewMemory[K comparable, V any]() *Memory[K, V] {
	return &Memory[K, V]{sessions: make(map[K]V)}
}

// Get returns the session stored for key.
func (m *Memory[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.sessions[key]
	return v, ok
}

// Set stores value under key, replacing any previous session.
func (m *Memory[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = value
}

// Delete removes the session for key.
func (m *Memory[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
}

// Len reports how many sessions are stored.
func (m *Memory[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

var _ Store[int64, struct{}] = (*Memory[int64, struct{}])(nil)

package idempotency

import "sync"

// MockStore is a map-backed Store for tests. Entries never expire.
type MockStore[V any] struct {
	mu      sync.Mutex
	entries map[string]Entry[V]

	// Hooks for test assertions
	GetCalls int
	SetCalls int
}

// NewMockStore creates an empty mock store.
func NewMockStore[V any]() *MockStore[V] {
	return &MockStore[V]{entries: make(map[string]Entry[V])}
}

func (m *MockStore[V]) Get(key string) (Entry[V], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	e, ok := m.entries[key]
	return e, ok
}

func (m *MockStore[V]) Set(key string, entry Entry[V]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	m.entries[key] = entry
}

func (m *MockStore[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *MockStore[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sets returns the number of Set calls so far.
func (m *MockStore[V]) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SetCalls
}

// Compile-time check that MockStore implements Store
var _ Store[struct{}] = (*MockStore[struct{}])(nil)

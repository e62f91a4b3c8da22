// Package oauth implements the gateway's minimal OAuth 2.0
// authorization-code flow: dynamic client registration, authorization codes
// bound to per-user Slack tokens, bearer access tokens, and active sessions.
// All state lives in injected stores; nothing survives a process restart.
package oauth

import "sync"

// Store is a minimal keyed record store. Implementations must be safe for
// concurrent use. The gateway injects a store per record kind rather than
// using process-wide registries, so a persistent implementation can be
// swapped in without touching the flow logic.
type Store[T any] interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (T, bool)
	// Set stores value under key, replacing any existing value.
	Set(key string, value T)
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)
	// Range calls fn for each entry until fn returns false.
	Range(fn func(key string, value T) bool)
}

// MemoryStore is a mutex-guarded in-memory Store.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{
		items: make(map[string]T),
	}
}

// Get implements Store.
func (s *MemoryStore[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set implements Store.
func (s *MemoryStore[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Delete implements Store.
func (s *MemoryStore[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Range implements Store. The iteration order is unspecified.
func (s *MemoryStore[T]) Range(fn func(key string, value T) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.items {
		if !fn(k, v) {
			return
		}
	}
}

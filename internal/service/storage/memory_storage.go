package storage

import (
	"sync"
)

// MemoryStorage - universal in-memory object storage
// K - key type, V - stored object type
type MemoryStorage[K comparable, V any] struct {
	data  map[K]V
	mutex sync.RWMutex
}

// NewMemoryStorage creates a new storage
func NewMemoryStorage[K comparable, V any]() *MemoryStorage[K, V] {
	return &MemoryStorage[K, V]{
		data: make(map[K]V),
	}
}

// Set adds or updates an object
func (s *MemoryStorage[K, V]) Set(key K, value V) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = value
}

// Get returns an object by key
func (s *MemoryStorage[K, V]) Get(key K) (V, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	return value, exists
}

// Delete removes an object by key
func (s *MemoryStorage[K, V]) Delete(key K) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.data[key]; !exists {
		return false
	}

	delete(s.data, key)
	return true
}

// ForEach executes a function for each object
func (s *MemoryStorage[K, V]) ForEach(fn func(key K, value V) bool) {
	// Copy data under lock for subsequent processing
	s.mutex.RLock()
	items := make(map[K]V, len(s.data))
	for k, v := range s.data {
		items[k] = v
	}
	s.mutex.RUnlock()

	// Process copied data without locking
	for k, v := range items {
		if !fn(k, v) {
			break
		}
	}
}

// Count returns the number of objects
func (s *MemoryStorage[K, V]) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

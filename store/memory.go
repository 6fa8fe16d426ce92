package store

import (
	"sync"
	"time"
)

// entry holds a stored value with its timestamp.
type entry struct {
	value     string
	timestamp time.Time
}

// InMemoryStore is a thread-safe in-memory store with TTL support.
type InMemoryStore struct {
	data map[string]entry
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
}

// NewInMemoryStore creates a new in-memory store with the specified TTL.
// If ttl is 0 or negative, entries never expire.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	if ttl < 0 {
		ttl = 0
	}
	return &InMemoryStore{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get retrieves a value from the store.
// Returns the value and true if found and not expired, empty string and false otherwise.
func (s *InMemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return "", false
	}

	if s.expired(e, s.now()) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := s.data[key]; ok && s.expired(cur, s.now()) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return "", false
	}

	return e.value, true
}

// Set stores a value in the store.
func (s *InMemoryStore) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{
		value:     value,
		timestamp: s.now(),
	}
	return nil
}

// Delete removes a value from the store.
func (s *InMemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of entries in the store (including expired ones).
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear removes all entries.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]entry)
}

// Sweep removes expired entries and returns how many were removed.
func (s *InMemoryStore) Sweep() int {
	if s.ttl == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.data {
		if s.expired(e, now) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}

func (s *InMemoryStore) expired(e entry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.timestamp) > s.ttl
}

// Verify InMemoryStore implements SessionStore
var _ SessionStore = (*InMemoryStore)(nil)

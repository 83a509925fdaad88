package index

import (
	"context"
	"sync"
	"time"

	"ruleid/internal/domain"
)

// MemoryStore keeps the identifier index in process memory for single mode.
// Params: in-memory map and injected clock.
// Returns: store implementation without external dependencies.
type MemoryStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	entries map[string]Entry
}

// NewMemoryStore creates an in-memory index store.
// Params: now function (defaults to time.Now when nil).
// Returns: initialized in-memory store.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:     now,
		entries: make(map[string]Entry),
	}
}

// Put writes one index entry unconditionally.
// Params: identifier key and rule payload.
// Returns: nil (in-memory update).
func (s *MemoryStore) Put(_ context.Context, key string, rule domain.RuleWithLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{Rule: rule, UpdatedAt: s.now()}
	return nil
}

// Get returns one index entry.
// Params: identifier key.
// Returns: stored entry or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

// Delete removes one index entry.
// Params: identifier key.
// Returns: nil (in-memory delete, absent keys are ignored).
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close releases memory store resources.
// Params: none.
// Returns: nil.
func (s *MemoryStore) Close() error {
	return nil
}

package events

import (
	"context"
	"sync"
)

// DefaultJournalSize bounds MemoryStore when no capacity is given.
const DefaultJournalSize = 256

// MemoryStore keeps the most recent events in memory, oldest first.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	events   []Event
}

// NewMemoryStore returns a journal holding at most capacity events.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultJournalSize
	}
	return &MemoryStore{capacity: capacity}
}

// Append records ev, evicting the oldest event when full.
func (s *MemoryStore) Append(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == s.capacity {
		copy(s.events, s.events[1:])
		s.events = s.events[:len(s.events)-1]
	}
	s.events = append(s.events, ev)
	return nil
}

// Recent returns up to limit events, newest last. A non-positive limit returns all.
func (s *MemoryStore) Recent(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && limit < len(s.events) {
		start = len(s.events) - limit
	}
	return append([]Event(nil), s.events[start:]...)
}

// Len reports how many events are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Package history keeps the process-wide per-city search counters. Counts
// live for the process lifetime only and reset to empty on every start.
package history

import (
	"sync"

	"github.com/citymeteo/go-city-weather/internal/types"
)

// Store counts successful lookups per city. Keys are exact city strings as
// submitted (case-sensitive, untrimmed). Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	counts map[string]int
	order  []string // insertion order for ListAll snapshots
}

// NewStore returns an empty history store.
func NewStore() *Store {
	return &Store{
		counts: make(map[string]int),
	}
}

// Increment bumps the counter for city, creating the entry at 1 when absent.
// Concurrent increments for the same city never lose updates.
func (s *Store) Increment(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.counts[city]; !ok {
		s.order = append(s.order, city)
	}
	s.counts[city]++
}

// ListAll returns a snapshot of all entries in insertion order.
func (s *Store) ListAll() []types.SearchHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]types.SearchHistoryEntry, 0, len(s.order))
	for _, city := range s.order {
		entries = append(entries, types.SearchHistoryEntry{City: city, Count: s.counts[city]})
	}
	return entries
}

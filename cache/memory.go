package cache

import (
	"sync"

	"github.com/ZaguanLabs/moodletl"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MemoryStore is a thread-safe in-memory store that remembers insertion
// order. Flush is a no-op.
type MemoryStore struct {
	entries *orderedmap.OrderedMap[string, string]
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: orderedmap.New[string, string]()}
}

// Get retrieves the translation of source.
func (s *MemoryStore) Get(source string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Get(source)
}

// Set stores a translation. Overwriting keeps the original position.
func (s *MemoryStore) Set(source, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Set(source, translation)
	return nil
}

func (s *MemoryStore) Flush() error { return nil }
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of entries in the store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.Len()
}

// Clear removes all entries from the store.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = orderedmap.New[string, string]()
}

// Entries returns all entries in insertion order.
func (s *MemoryStore) Entries() ([]moodletl.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pairs(s.entries), nil
}

func pairs(m *orderedmap.OrderedMap[string, string]) []moodletl.Entry {
	entries := make([]moodletl.Entry, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, moodletl.Entry{Source: pair.Key, Translation: pair.Value})
	}
	return entries
}

var _ Store = (*MemoryStore)(nil)

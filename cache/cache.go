// Package cache provides persistent translation stores keyed by exact source
// text, and the strings-file reader and writer.
package cache

import "github.com/ZaguanLabs/moodletl"

// Store is a translation cache that can be persisted and enumerated.
type Store interface {
	moodletl.TranslationCache

	// Entries returns every stored translation in insertion order.
	Entries() ([]moodletl.Entry, error)

	// Close flushes pending writes and releases the store.
	Close() error
}

// Len returns the number of entries in s.
func Len(s Store) (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Copy stores every entry of src into dst and flushes dst.
func Copy(dst, src Store) (int, error) {
	entries, err := src.Entries()
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := dst.Set(e.Source, e.Translation); err != nil {
			return 0, err
		}
	}
	return len(entries), dst.Flush()
}

func cacheError(msg string, err error) error {
	return &moodletl.CacheError{Message: msg, Cause: err}
}

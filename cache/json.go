package cache

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/ZaguanLabs/moodletl"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSONStore keeps translations in memory and persists them to a JSON file
// on Flush. The file is a single object mapping source to translation, in
// insertion order.
type JSONStore struct {
	path    string
	entries *orderedmap.OrderedMap[string, string]
	dirty   bool
	mu      sync.Mutex
}

// OpenJSONStore loads the JSON store at path. A missing file gives an empty
// store; the file is created on the first Flush.
func OpenJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path:    path,
		entries: orderedmap.New[string, string](),
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is intentionally user-provided
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, cacheError("reading "+path, err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, s.entries); err != nil {
			return nil, cacheError("decoding "+path, err)
		}
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Get(source string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Get(source)
}

func (s *JSONStore) Set(source, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Set(source, translation)
	s.dirty = true
	return nil
}

// Flush writes the store to its file if it changed since the last flush.
func (s *JSONStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	members := entryMembers(pairs(s.entries))
	if err := writeFile(s.path, func(w io.Writer) error { return writeObject(w, members) }); err != nil {
		return cacheError("writing "+s.path, err)
	}
	s.dirty = false
	return nil
}

func (s *JSONStore) Entries() ([]moodletl.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pairs(s.entries), nil
}

func (s *JSONStore) Close() error {
	return s.Flush()
}

var _ Store = (*JSONStore)(nil)

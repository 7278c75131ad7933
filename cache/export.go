package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZaguanLabs/moodletl"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// pair is one member of a JSON object. A nil value is written as null.
type pair struct {
	key   string
	value *string
}

// writeObject writes members as a JSON object indented with four spaces,
// without HTML escaping.
func writeObject(w io.Writer, members []pair) error {
	var buf bytes.Buffer
	if len(members) == 0 {
		buf.WriteString("{}")
		_, err := w.Write(buf.Bytes())
		return err
	}

	buf.WriteString("{\n")
	for i, m := range members {
		key, err := encodeString(m.key)
		if err != nil {
			return err
		}
		buf.WriteString("    ")
		buf.Write(key)
		buf.WriteString(": ")
		if m.value == nil {
			buf.WriteString("null")
		} else {
			val, err := encodeString(*m.value)
			if err != nil {
				return err
			}
			buf.Write(val)
		}
		if i < len(members)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")

	_, err := w.Write(buf.Bytes())
	return err
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeFile replaces path with the output of write, going through a
// temporary file in the same directory.
func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Export writes the entries of s as a JSON object mapping source to
// translation, in insertion order.
func Export(w io.Writer, s Store) error {
	entries, err := s.Entries()
	if err != nil {
		return fmt.Errorf("getting cache entries: %w", err)
	}
	return writeObject(w, entryMembers(entries))
}

// ExportToFile exports s to the JSON file at path.
func ExportToFile(path string, s Store) error {
	return writeFile(path, func(w io.Writer) error { return Export(w, s) })
}

func entryMembers(entries []moodletl.Entry) []pair {
	members := make([]pair, len(entries))
	for i := range entries {
		members[i] = pair{key: entries[i].Source, value: &entries[i].Translation}
	}
	return members
}

// ImportResult contains statistics about an import.
type ImportResult struct {
	Imported int
	Skipped  int // Members whose value is not a string
}

// Import reads a JSON object mapping source to translation and stores every
// member in s, then flushes s.
func Import(r io.Reader, s Store) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}

	m := orderedmap.New[string, *string]()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	result := &ImportResult{}
	for p := m.Oldest(); p != nil; p = p.Next() {
		if p.Value == nil {
			result.Skipped++
			continue
		}
		if err := s.Set(p.Key, *p.Value); err != nil {
			return result, err
		}
		result.Imported++
	}
	return result, s.Flush()
}

// ImportFromFile imports the JSON file at path into s.
func ImportFromFile(path string, s Store) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(f, s)
}

// WriteStrings writes the strings to translate as a JSON object mapping each
// string to null.
func WriteStrings(w io.Writer, strings []string) error {
	members := make([]pair, len(strings))
	for i, s := range strings {
		members[i] = pair{key: s}
	}
	return writeObject(w, members)
}

// WriteStringsFile writes the strings file at path.
func WriteStringsFile(path string, strings []string) error {
	return writeFile(path, func(w io.Writer) error { return WriteStrings(w, strings) })
}

// ReadStrings reads the keys of a strings file in file order. Values are
// ignored.
func ReadStrings(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading strings file: %w", err)
	}

	m := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding strings file: %w", err)
	}

	strings := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		strings = append(strings, p.Key)
	}
	return strings, nil
}

// ReadStringsFile reads the strings file at path.
func ReadStringsFile(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadStrings(f)
}

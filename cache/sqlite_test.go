package cache

import (
	"path/filepath"
	"testing"

	"github.com/ZaguanLabs/moodletl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	return s, path
}

func TestSQLiteStore_GetSet(t *testing.T) {
	s, _ := openTestSQLite(t)
	defer s.Close()

	_, ok := s.Get("Hello there")
	assert.False(t, ok)

	require.NoError(t, s.Set("Hello there", "Bonjour"))
	val, ok := s.Get("Hello there")
	assert.True(t, ok, "pending writes are visible")
	assert.Equal(t, "Bonjour", val)

	require.NoError(t, s.Flush())
	val, ok = s.Get("Hello there")
	assert.True(t, ok)
	assert.Equal(t, "Bonjour", val)
}

func TestSQLiteStore_Overwrite(t *testing.T) {
	s, _ := openTestSQLite(t)
	defer s.Close()

	require.NoError(t, s.Set("First", "Premier"))
	require.NoError(t, s.Set("Second", "Deuxième"))
	require.NoError(t, s.Set("First", "1er"))
	require.NoError(t, s.Flush())

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Equal(t, []moodletl.Entry{
		{Source: "First", Translation: "1er"},
		{Source: "Second", Translation: "Deuxième"},
	}, entries)
}

func TestSQLiteStore_Persists(t *testing.T) {
	s, path := openTestSQLite(t)
	require.NoError(t, s.Set("Kept after close", "Conservé"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	val, ok := reopened.Get("Kept after close")
	assert.True(t, ok)
	assert.Equal(t, "Conservé", val)
	assert.Equal(t, path, reopened.Path())
}

func TestSQLiteStore_FlushWithoutWrites(t *testing.T) {
	s, _ := openTestSQLite(t)
	defer s.Close()
	assert.NoError(t, s.Flush())
}

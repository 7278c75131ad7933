package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ZaguanLabs/moodletl"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	source      TEXT PRIMARY KEY,
	translation TEXT NOT NULL
)`

// SQLiteStore is a translation store backed by a SQLite database.
// Writes are grouped in a transaction that is committed on Flush.
type SQLiteStore struct {
	db   *sql.DB
	tx   *sql.Tx
	path string
	mu   sync.Mutex
}

// OpenSQLiteStore opens or creates the SQLite store at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, cacheError("opening database", err)
	}

	// A single connection keeps reads inside the pending transaction.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, cacheError("creating translations table", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

func (s *SQLiteStore) conn() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *SQLiteStore) Get(source string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var translation string
	err := s.conn().QueryRow("SELECT translation FROM translations WHERE source = ?", source).Scan(&translation)
	if err != nil {
		return "", false
	}
	return translation, true
}

func (s *SQLiteStore) Set(source, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		tx, err := s.db.Begin()
		if err != nil {
			return cacheError("beginning transaction", err)
		}
		s.tx = tx
	}

	_, err := s.tx.Exec(`
		INSERT INTO translations (source, translation) VALUES (?, ?)
		ON CONFLICT(source) DO UPDATE SET translation = excluded.translation`,
		source, translation)
	if err != nil {
		return cacheError("storing translation", err)
	}
	return nil
}

// Flush commits pending writes.
func (s *SQLiteStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return cacheError("committing translations", err)
	}
	return nil
}

// Entries returns all translations in insertion order.
func (s *SQLiteStore) Entries() ([]moodletl.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn().Query("SELECT source, translation FROM translations ORDER BY rowid")
	if err != nil {
		return nil, cacheError("listing translations", err)
	}
	defer rows.Close()

	var entries []moodletl.Entry
	for rows.Next() {
		var e moodletl.Entry
		if err := rows.Scan(&e.Source, &e.Translation); err != nil {
			return nil, cacheError("scanning translation", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, cacheError("listing translations", err)
	}
	return entries, nil
}

// Close commits pending writes and closes the database.
func (s *SQLiteStore) Close() error {
	flushErr := s.Flush()
	if err := s.db.Close(); err != nil {
		return errors.Join(flushErr, fmt.Errorf("closing database: %w", err))
	}
	return flushErr
}

var _ Store = (*SQLiteStore)(nil)

package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

const createChatKVTable = `
CREATE TABLE IF NOT EXISTS chatKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// SQLiteBackend stores values in a single chatKV table
type SQLiteBackend struct {
	db *sqlx.DB
}

// KeyValuePair is one row of chatKV
type KeyValuePair struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// SQLitePath returns the database file used under a data directory
func SQLitePath(dataDir string) string {
	return filepath.Join(dataDir, "chatview.db")
}

// OpenSQLiteBackend opens (creating if needed) the database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Key: path, Err: err}
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	b, err := NewSQLiteBackend(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// NewSQLiteBackend wraps an open database, creating the chatKV table if missing
func NewSQLiteBackend(db *sqlx.DB) (*SQLiteBackend, error) {
	if _, err := db.Exec(createChatKVTable); err != nil {
		return nil, &StorageError{Op: "open", Key: "chatKV", Err: fmt.Errorf("failed to create table: %w", err)}
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := b.db.Get(&value, "SELECT value FROM chatKV WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Op: "get", Key: key, Err: err}
	}
	return value.String, true, nil
}

func (b *SQLiteBackend) Set(key, value string) error {
	_, err := b.db.Exec(
		`INSERT INTO chatKV (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	LogDebug("Stored %d bytes under %s", len(value), key)
	return nil
}

// Scan returns every row whose key starts with prefix
func (b *SQLiteBackend) Scan(prefix string) ([]KeyValuePair, error) {
	pairs, err := b.QueryChatKV(prefix + "%")
	if err != nil {
		return nil, &StorageError{Op: "scan", Key: prefix, Err: err}
	}
	// LIKE ignores ASCII case and treats _ as a wildcard
	kept := pairs[:0]
	for _, pair := range pairs {
		if strings.HasPrefix(pair.Key, prefix) {
			kept = append(kept, pair)
		}
	}
	return kept, nil
}

// QueryChatKV returns every row whose key matches a LIKE pattern
func (b *SQLiteBackend) QueryChatKV(pattern string) ([]KeyValuePair, error) {
	var pairs []KeyValuePair
	err := b.db.Select(&pairs, "SELECT key, value FROM chatKV WHERE key LIKE ? AND value IS NOT NULL ORDER BY key", pattern)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return pairs, nil
}

// Close closes the underlying database
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

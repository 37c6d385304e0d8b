package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database with the chatKV table
func CreateInMemoryDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS chatKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create chatKV table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateTestDB creates an in-memory database holding the fixture collections
func CreateTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	rows := []struct {
		key   string
		value string
	}{
		{key: "chats:alice", value: TwoSessionsJSON},
		{key: "chats:bob", value: EmptySessionJSON},
		{key: "current:alice", value: "1"},
	}
	for _, row := range rows {
		InsertKV(t, db, row.key, row.value)
	}
	return db
}

// InsertKV inserts a raw row into chatKV
func InsertKV(t *testing.T, db *sqlx.DB, key string, value interface{}) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO chatKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert %s: %v", key, err)
	}
}

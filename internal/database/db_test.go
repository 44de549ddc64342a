package database

import (
	"path/filepath"
	"testing"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "planner.db")

	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}

	// The migrated schema is queryable.
	var n int
	if err := db.SQL.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		t.Errorf("Expected the history table to exist, got %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopening an already-migrated database is not an error.
	db, err = NewDB(path)
	if err != nil {
		t.Fatalf("Expected reopening to succeed, got %v", err)
	}
	db.Close()
}

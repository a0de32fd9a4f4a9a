package testutil

import (
	"path/filepath"
	"testing"

	"classdumper/internal/database"
)

// NewTestStore creates a new in-memory store with the schema migrated.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) *database.SQLiteStore {
	t.Helper()

	s, err := database.NewSQLiteStore(database.MemoryPath, nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// NewFileStore creates a migrated store backed by a file in a temp directory.
// Unlike the in-memory store it supports ReplaceWith.
func NewFileStore(t *testing.T) *database.SQLiteStore {
	t.Helper()

	s, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "Database", "db.sqlite"), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	s.SettleDelay = 0

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

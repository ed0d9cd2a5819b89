package db

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

// NewTestDB returns a migrated in-memory database. It is limited to one
// connection, so it cannot show per-connection or locking behavior.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// NewFileTestDB returns a migrated database in a temporary file, with a
// regular connection pool.
func NewFileTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return openTestDB(t, filepath.Join(t.TempDir(), "izposoja.sqlite3"))
}

func openTestDB(t *testing.T, path string) *sqlx.DB {
	t.Helper()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

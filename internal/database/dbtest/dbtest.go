// Package dbtest provides a throwaway SQLite database carrying the production
// schema, for tests of code that talks to *sql.DB.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/iliyamo/boardgame-depot/internal/database"
)

// New creates a fresh file-backed SQLite database under t.TempDir with the
// schema applied. The pragmas go in the DSN so every pooled connection gets
// them.
func New(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "depot.db")
	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db, database.SQLite); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

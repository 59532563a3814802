package database_test

import (
	"context"
	"testing"

	"github.com/iliyamo/boardgame-depot/internal/database"
	"github.com/iliyamo/boardgame-depot/internal/database/dbtest"
)

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := dbtest.New(t)

	if err := database.EnsureSchema(context.Background(), db, database.SQLite); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	for _, table := range []string{
		"managers", "sellers", "clients", "sessions",
		"game_descriptions", "deposited_games", "transactions",
	} {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		if err != nil {
			t.Fatalf("checking %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestEnsureSchemaCreatesIndexes(t *testing.T) {
	db := dbtest.New(t)

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%'`).Scan(&n)
	if err != nil {
		t.Fatalf("counting indexes: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 indexes, got %d", n)
	}
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Dialect selects the few statements that differ between MySQL and SQLite.
type Dialect int

const (
	MySQL Dialect = iota
	SQLite
)

// tables is written in the subset of DDL both engines accept. Foreign keys
// are plain id columns resolved by joins at read time.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS managers (
    id            VARCHAR(36)  NOT NULL PRIMARY KEY,
    email         VARCHAR(255) NOT NULL UNIQUE,
    first_name    VARCHAR(255) NOT NULL DEFAULT '',
    last_name     VARCHAR(255) NOT NULL DEFAULT '',
    password_hash VARCHAR(255) NOT NULL,
    is_admin      BOOLEAN      NOT NULL DEFAULT 0,
    created_at    DATETIME     NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS sellers (
    id          VARCHAR(36)   NOT NULL PRIMARY KEY,
    name        VARCHAR(255)  NOT NULL,
    email       VARCHAR(255)  NOT NULL,
    phone       VARCHAR(64)   NOT NULL DEFAULT '',
    amount_owed DECIMAL(12,2) NOT NULL DEFAULT 0,
    created_at  DATETIME      NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS clients (
    id         VARCHAR(36)  NOT NULL PRIMARY KEY,
    name       VARCHAR(255) NOT NULL,
    email      VARCHAR(255) NOT NULL,
    phone      VARCHAR(64)  NOT NULL DEFAULT '',
    address    VARCHAR(512) NOT NULL DEFAULT '',
    created_at DATETIME     NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS sessions (
    id              VARCHAR(36)   NOT NULL PRIMARY KEY,
    name            VARCHAR(255)  NOT NULL,
    location        VARCHAR(255)  NOT NULL DEFAULT '',
    start_date      DATETIME      NOT NULL,
    end_date        DATETIME      NOT NULL,
    sale_commission DECIMAL(6,4)  NOT NULL DEFAULT 0,
    deposit_fee     DECIMAL(12,2) NOT NULL DEFAULT 0,
    created_at      DATETIME      NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS game_descriptions (
    id          VARCHAR(36)   NOT NULL PRIMARY KEY,
    name        VARCHAR(255)  NOT NULL,
    publisher   VARCHAR(255)  NOT NULL DEFAULT '',
    photo_url   VARCHAR(1024) NOT NULL DEFAULT '',
    description TEXT          NOT NULL,
    min_players INT           NOT NULL DEFAULT 0,
    max_players INT           NOT NULL DEFAULT 0,
    age_range   VARCHAR(64)   NOT NULL DEFAULT '',
    created_at  DATETIME      NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS deposited_games (
    id                  VARCHAR(36)   NOT NULL PRIMARY KEY,
    session_id          VARCHAR(36)   NOT NULL,
    seller_id           VARCHAR(36)   NOT NULL,
    game_description_id VARCHAR(36)   NOT NULL,
    sale_price          DECIMAL(12,2) NOT NULL,
    for_sale            BOOLEAN       NOT NULL DEFAULT 0,
    picked_up           BOOLEAN       NOT NULL DEFAULT 0,
    sold                BOOLEAN       NOT NULL DEFAULT 0,
    created_at          DATETIME      NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS transactions (
    id               VARCHAR(36) NOT NULL PRIMARY KEY,
    label_id         VARCHAR(36) NOT NULL,
    session_id       VARCHAR(36) NOT NULL,
    seller_id        VARCHAR(36) NOT NULL,
    client_id        VARCHAR(36) NOT NULL,
    manager_id       VARCHAR(36) NOT NULL,
    transaction_date DATETIME    NOT NULL
)`,
}

type index struct {
	name, table, columns string
}

var indexes = []index{
	{"idx_deposited_games_seller", "deposited_games", "seller_id"},
	{"idx_deposited_games_session", "deposited_games", "session_id"},
	{"idx_transactions_label", "transactions", "label_id"},
	{"idx_transactions_session", "transactions", "session_id"},
	{"idx_transactions_seller", "transactions", "seller_id"},
	{"idx_transactions_client", "transactions", "client_id"},
}

// mysqlDupKeyName is ER_DUP_KEYNAME; MySQL has no CREATE INDEX IF NOT EXISTS.
const mysqlDupKeyName = 1061

// EnsureSchema creates all tables and indexes that do not exist yet. It is
// safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range tables {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ix := range indexes {
		if err := createIndex(ctx, db, d, ix); err != nil {
			return fmt.Errorf("creating index %s: %w", ix.name, err)
		}
	}
	return nil
}

func createIndex(ctx context.Context, db *sql.DB, d Dialect, ix index) error {
	var b strings.Builder
	b.WriteString("CREATE INDEX ")
	if d == SQLite {
		b.WriteString("IF NOT EXISTS ")
	}
	fmt.Fprintf(&b, "%s ON %s (%s)", ix.name, ix.table, ix.columns)

	_, err := db.ExecContext(ctx, b.String())
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupKeyName {
		return nil
	}
	return err
}

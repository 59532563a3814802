package repository

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so one query helper serves
// the plain and the transactional variant of a repository method.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is the common part of *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// stamp normalizes a timestamp to what a DATETIME column holds.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// affectedOrNotFound maps a zero-row write to ErrNotFound.
func affectedOrNotFound(res sql.Result) error {
	return affectedOr(res, ErrNotFound)
}

func affectedOr(res sql.Result, zero error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return zero
	}
	return nil
}

// Repos bundles every repository over one pool.
type Repos struct {
	Managers         *ManagerRepo
	Sellers          *SellerRepo
	Clients          *ClientRepo
	Sessions         *SessionRepo
	GameDescriptions *GameDescriptionRepo
	DepositedGames   *DepositedGameRepo
	Transactions     *TransactionRepo
}

// NewRepos builds all repositories on db.
func NewRepos(db *sql.DB) *Repos {
	return &Repos{
		Managers:         NewManagerRepo(db),
		Sellers:          NewSellerRepo(db),
		Clients:          NewClientRepo(db),
		Sessions:         NewSessionRepo(db),
		GameDescriptions: NewGameDescriptionRepo(db),
		DepositedGames:   NewDepositedGameRepo(db),
		Transactions:     NewTransactionRepo(db),
	}
}

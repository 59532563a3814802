package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/boardgame-depot/internal/model"
)

// SessionRepo persists sale sessions.
type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = "id, name, location, start_date, end_date, sale_commission, deposit_fee, created_at"

// Create inserts a session.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	s.StartDate, s.EndDate, s.CreatedAt = stamp(s.StartDate), stamp(s.EndDate), stamp(s.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions ("+sessionColumns+") VALUES (?,?,?,?,?,?,?,?)",
		s.ID, s.Name, s.Location, s.StartDate, s.EndDate, s.SaleCommission, s.DepositFee, s.CreatedAt)
	return err
}

// GetByID returns ErrNotFound when the session does not exist.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	return getSession(ctx, r.db, id)
}

// GetByIDTx is GetByID inside tx.
func (r *SessionRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.Session, error) {
	return getSession(ctx, tx, id)
}

func getSession(ctx context.Context, q DBTX, id string) (*model.Session, error) {
	s, err := scanSession(q.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func scanSession(row scanner) (*model.Session, error) {
	var s model.Session
	if err := row.Scan(&s.ID, &s.Name, &s.Location, &s.StartDate, &s.EndDate,
		&s.SaleCommission, &s.DepositFee, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns every session, most recent start first.
func (r *SessionRepo) List(ctx context.Context) ([]*model.Session, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+sessionColumns+" FROM sessions ORDER BY start_date DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update writes every editable field of s.
func (r *SessionRepo) Update(ctx context.Context, s *model.Session) error {
	s.StartDate, s.EndDate = stamp(s.StartDate), stamp(s.EndDate)
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET name = ?, location = ?, start_date = ?, end_date = ?,
		        sale_commission = ?, deposit_fee = ?
		 WHERE id = ?`,
		s.Name, s.Location, s.StartDate, s.EndDate, s.SaleCommission, s.DepositFee, s.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// Delete removes a session.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

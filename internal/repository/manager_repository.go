package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/boardgame-depot/internal/model"
)

// ManagerRepo persists manager accounts.
type ManagerRepo struct{ db *sql.DB }

func NewManagerRepo(db *sql.DB) *ManagerRepo { return &ManagerRepo{db: db} }

const managerColumns = "id, email, first_name, last_name, password_hash, is_admin, created_at"

// Create inserts a manager. Email is stored lower-cased; a taken email
// yields ErrDuplicate.
func (r *ManagerRepo) Create(ctx context.Context, m *model.Manager) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.CreatedAt = stamp(m.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO managers ("+managerColumns+") VALUES (?,?,?,?,?,?,?)",
		m.ID, m.Email, m.FirstName, m.LastName, m.PasswordHash, m.IsAdmin, m.CreatedAt)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// GetByEmail fetches a manager by normalized email.
func (r *ManagerRepo) GetByEmail(ctx context.Context, email string) (*model.Manager, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanManager(r.db.QueryRowContext(ctx,
		"SELECT "+managerColumns+" FROM managers WHERE email = ? LIMIT 1", email))
}

// GetByID fetches a manager by id.
func (r *ManagerRepo) GetByID(ctx context.Context, id string) (*model.Manager, error) {
	return scanManager(r.db.QueryRowContext(ctx,
		"SELECT "+managerColumns+" FROM managers WHERE id = ? LIMIT 1", id))
}

func scanManager(row scanner) (*model.Manager, error) {
	var m model.Manager
	err := row.Scan(&m.ID, &m.Email, &m.FirstName, &m.LastName, &m.PasswordHash, &m.IsAdmin, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

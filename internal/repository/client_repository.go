package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/boardgame-depot/internal/model"
)

// ClientRepo persists buyers.
type ClientRepo struct{ db *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

const clientColumns = "id, name, email, phone, address, created_at"

func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	c.CreatedAt = stamp(c.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO clients ("+clientColumns+") VALUES (?,?,?,?,?,?)",
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt)
	return err
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	return getClient(ctx, r.db, id)
}

func (r *ClientRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.Client, error) {
	return getClient(ctx, tx, id)
}

func getClient(ctx context.Context, q DBTX, id string) (*model.Client, error) {
	var c model.Client
	err := q.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]*model.Client, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Client{}
	for rows.Next() {
		c := new(model.Client)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE clients SET name = ?, email = ?, phone = ?, address = ? WHERE id = ?",
		c.Name, c.Email, c.Phone, c.Address, c.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

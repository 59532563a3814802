package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/boardgame-depot/internal/model"
)

// SellerRepo persists sellers and their payout balance.
type SellerRepo struct{ db *sql.DB }

func NewSellerRepo(db *sql.DB) *SellerRepo { return &SellerRepo{db: db} }

const sellerColumns = "id, name, email, phone, amount_owed, created_at"

// Create inserts a seller.
func (r *SellerRepo) Create(ctx context.Context, s *model.Seller) error {
	s.CreatedAt = stamp(s.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sellers ("+sellerColumns+") VALUES (?,?,?,?,?,?)",
		s.ID, s.Name, s.Email, s.Phone, s.AmountOwed, s.CreatedAt)
	return err
}

// GetByID returns ErrNotFound when the seller does not exist.
func (r *SellerRepo) GetByID(ctx context.Context, id string) (*model.Seller, error) {
	return getSeller(ctx, r.db, id)
}

// GetByIDTx is GetByID inside tx.
func (r *SellerRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.Seller, error) {
	return getSeller(ctx, tx, id)
}

func getSeller(ctx context.Context, q DBTX, id string) (*model.Seller, error) {
	var s model.Seller
	err := q.QueryRowContext(ctx, "SELECT "+sellerColumns+" FROM sellers WHERE id = ?", id).
		Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.AmountOwed, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all sellers ordered by name.
func (r *SellerRepo) List(ctx context.Context) ([]*model.Seller, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+sellerColumns+" FROM sellers ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Seller{}
	for rows.Next() {
		s := new(model.Seller)
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.AmountOwed, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update writes the editable fields. The balance is only moved by
// AddToAmountOwedTx.
func (r *SellerRepo) Update(ctx context.Context, s *model.Seller) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sellers SET name = ?, email = ?, phone = ? WHERE id = ?",
		s.Name, s.Email, s.Phone, s.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// AddToAmountOwedTx credits amount to the seller's balance in one statement.
func (r *SellerRepo) AddToAmountOwedTx(ctx context.Context, tx *sql.Tx, id string, amount decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE sellers SET amount_owed = amount_owed + CAST(? AS DECIMAL(12,2)) WHERE id = ?",
		amount, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// Delete removes a seller.
func (r *SellerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sellers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/boardgame-depot/internal/model"
)

// TransactionRepo persists sale records.
type TransactionRepo struct{ db *sql.DB }

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = "id, label_id, session_id, seller_id, client_id, manager_id, transaction_date"

// TransactionFilter narrows ListDetails. Empty fields do not filter.
type TransactionFilter struct {
	SessionID string
	ClientID  string
	SellerID  string
}

// CreateTx inserts t inside tx.
func (r *TransactionRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	t.TransactionDate = stamp(t.TransactionDate)
	_, err := tx.ExecContext(ctx,
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?,?,?,?,?,?,?)",
		t.ID, t.LabelID, t.SessionID, t.SellerID, t.ClientID, t.ManagerID, t.TransactionDate)
	return err
}

// GetByID returns the bare row.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id).
		Scan(&t.ID, &t.LabelID, &t.SessionID, &t.SellerID, &t.ClientID, &t.ManagerID, &t.TransactionDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const transactionDetailSelect = `SELECT t.id, t.label_id, t.session_id, t.seller_id, t.client_id, t.manager_id,
       t.transaction_date,
       COALESCE(dg.sale_price, 0), COALESCE(gd.name, ''),
       COALESCE(s.name, ''),
       COALESCE(sl.name, ''), COALESCE(sl.email, ''),
       COALESCE(c.name, ''), COALESCE(c.email, ''),
       COALESCE(m.first_name, ''), COALESCE(m.last_name, '')
FROM transactions t
LEFT JOIN deposited_games dg ON dg.id = t.label_id
LEFT JOIN game_descriptions gd ON gd.id = dg.game_description_id
LEFT JOIN sessions s ON s.id = t.session_id
LEFT JOIN sellers sl ON sl.id = t.seller_id
LEFT JOIN clients c ON c.id = t.client_id
LEFT JOIN managers m ON m.id = t.manager_id`

func scanTransactionDetail(row scanner) (*model.TransactionDetail, error) {
	var d model.TransactionDetail
	err := row.Scan(&d.ID, &d.LabelID, &d.SessionID, &d.SellerID, &d.ClientID, &d.ManagerID,
		&d.TransactionDate,
		&d.Label.SalePrice, &d.Label.GameName,
		&d.SessionName,
		&d.Seller.Name, &d.Seller.Email,
		&d.Client.Name, &d.Client.Email,
		&d.Manager.FirstName, &d.Manager.LastName)
	if err != nil {
		return nil, err
	}
	d.Label.ID = d.LabelID
	d.Seller.ID = d.SellerID
	d.Client.ID = d.ClientID
	d.Manager.ID = d.ManagerID
	return &d, nil
}

// GetDetail returns one transaction with its references resolved.
func (r *TransactionRepo) GetDetail(ctx context.Context, id string) (*model.TransactionDetail, error) {
	d, err := scanTransactionDetail(r.db.QueryRowContext(ctx, transactionDetailSelect+" WHERE t.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

// ListDetails returns transactions matching f, newest first.
func (r *TransactionRepo) ListDetails(ctx context.Context, f TransactionFilter) ([]*model.TransactionDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.SessionID != "" {
		where = append(where, "t.session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.ClientID != "" {
		where = append(where, "t.client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.SellerID != "" {
		where = append(where, "t.seller_id = ?")
		args = append(args, f.SellerID)
	}
	q := transactionDetailSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY t.transaction_date DESC, t.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.TransactionDetail{}
	for rows.Next() {
		d, err := scanTransactionDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update rewrites the reference fields of a transaction. It does not touch
// the sold game or the seller balance.
func (r *TransactionRepo) Update(ctx context.Context, t *model.Transaction) error {
	t.TransactionDate = stamp(t.TransactionDate)
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET label_id = ?, session_id = ?, seller_id = ?, client_id = ?,
		        manager_id = ?, transaction_date = ?
		 WHERE id = ?`,
		t.LabelID, t.SessionID, t.SellerID, t.ClientID, t.ManagerID, t.TransactionDate, t.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// Delete removes a transaction record.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

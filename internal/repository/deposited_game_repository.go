package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/boardgame-depot/internal/model"
)

// DepositedGameRepo persists consigned copies ("labels") and owns the
// guarded status transitions.
type DepositedGameRepo struct{ db *sql.DB }

func NewDepositedGameRepo(db *sql.DB) *DepositedGameRepo { return &DepositedGameRepo{db: db} }

const depositedGameColumns = "id, session_id, seller_id, game_description_id, sale_price, for_sale, picked_up, sold, created_at"

// DepositedGameFilter narrows ListDetails. Empty fields do not filter.
type DepositedGameFilter struct {
	SellerID  string
	SessionID string
}

// Create inserts a deposited game.
func (r *DepositedGameRepo) Create(ctx context.Context, g *model.DepositedGame) error {
	g.CreatedAt = stamp(g.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO deposited_games ("+depositedGameColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
		g.ID, g.SessionID, g.SellerID, g.GameDescriptionID, g.SalePrice, g.ForSale, g.PickedUp, g.Sold, g.CreatedAt)
	return err
}

// GetByID returns the bare row.
func (r *DepositedGameRepo) GetByID(ctx context.Context, id string) (*model.DepositedGame, error) {
	return getDepositedGame(ctx, r.db, id)
}

// GetByIDTx is GetByID inside tx.
func (r *DepositedGameRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.DepositedGame, error) {
	return getDepositedGame(ctx, tx, id)
}

func getDepositedGame(ctx context.Context, q DBTX, id string) (*model.DepositedGame, error) {
	var g model.DepositedGame
	err := q.QueryRowContext(ctx, "SELECT "+depositedGameColumns+" FROM deposited_games WHERE id = ?", id).
		Scan(&g.ID, &g.SessionID, &g.SellerID, &g.GameDescriptionID, &g.SalePrice,
			&g.ForSale, &g.PickedUp, &g.Sold, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// detailSelect resolves session, seller and catalog entry. LEFT JOINs keep a
// game visible after one of its references is deleted.
const detailSelect = `SELECT dg.id, dg.session_id, dg.seller_id, dg.game_description_id, dg.sale_price,
       dg.for_sale, dg.picked_up, dg.sold, dg.created_at,
       COALESCE(s.name, ''), s.start_date, s.end_date, COALESCE(s.sale_commission, 0),
       COALESCE(sl.name, ''), COALESCE(sl.email, ''),
       COALESCE(gd.name, ''), COALESCE(gd.publisher, ''), COALESCE(gd.photo_url, ''),
       COALESCE(gd.description, ''), COALESCE(gd.min_players, 0), COALESCE(gd.max_players, 0),
       COALESCE(gd.age_range, '')
FROM deposited_games dg
LEFT JOIN sessions s ON s.id = dg.session_id
LEFT JOIN sellers sl ON sl.id = dg.seller_id
LEFT JOIN game_descriptions gd ON gd.id = dg.game_description_id`

func scanDetail(row scanner) (*model.DepositedGameDetail, error) {
	var (
		d          model.DepositedGameDetail
		start, end sql.NullTime
	)
	err := row.Scan(&d.ID, &d.SessionID, &d.SellerID, &d.GameDescriptionID, &d.SalePrice,
		&d.ForSale, &d.PickedUp, &d.Sold, &d.CreatedAt,
		&d.Session.Name, &start, &end, &d.Session.SaleCommission,
		&d.Seller.Name, &d.Seller.Email,
		&d.GameDescription.Name, &d.GameDescription.Publisher, &d.GameDescription.PhotoURL,
		&d.GameDescription.Description, &d.GameDescription.MinPlayers, &d.GameDescription.MaxPlayers,
		&d.GameDescription.AgeRange)
	if err != nil {
		return nil, err
	}
	d.Session.ID = d.SessionID
	d.Session.StartDate = start.Time
	d.Session.EndDate = end.Time
	d.Seller.ID = d.SellerID
	d.GameDescription.ID = d.GameDescriptionID
	return &d, nil
}

// GetDetail returns one game with its references resolved.
func (r *DepositedGameRepo) GetDetail(ctx context.Context, id string) (*model.DepositedGameDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailSelect+" WHERE dg.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

// ListDetails returns games matching f, newest deposit first.
func (r *DepositedGameRepo) ListDetails(ctx context.Context, f DepositedGameFilter) ([]*model.DepositedGameDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.SellerID != "" {
		where = append(where, "dg.seller_id = ?")
		args = append(args, f.SellerID)
	}
	if f.SessionID != "" {
		where = append(where, "dg.session_id = ?")
		args = append(args, f.SessionID)
	}
	q := detailSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY dg.created_at DESC, dg.id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.DepositedGameDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update writes references and price. Status flags change only through the
// dedicated transitions below.
func (r *DepositedGameRepo) Update(ctx context.Context, g *model.DepositedGame) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE deposited_games SET session_id = ?, seller_id = ?, game_description_id = ?, sale_price = ?
		 WHERE id = ?`,
		g.SessionID, g.SellerID, g.GameDescriptionID, g.SalePrice, g.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// SetForSale lists a game that is neither picked up nor sold. A game in
// either state yields ErrConflict.
func (r *DepositedGameRepo) SetForSale(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE deposited_games SET for_sale = 1 WHERE id = ? AND picked_up = 0 AND sold = 0", id)
	if err != nil {
		return err
	}
	return affectedOr(res, ErrConflict)
}

// RemoveFromSale unlists a game.
func (r *DepositedGameRepo) RemoveFromSale(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE deposited_games SET for_sale = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// MarkPickedUp returns an unsold game to its seller. A sold game yields
// ErrConflict.
func (r *DepositedGameRepo) MarkPickedUp(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE deposited_games SET for_sale = 0, picked_up = 1 WHERE id = ? AND sold = 0", id)
	if err != nil {
		return err
	}
	return affectedOr(res, ErrConflict)
}

// MarkSoldTx flips an available game to sold. Only one caller can win this
// update for a given game; everyone else gets ErrConflict.
func (r *DepositedGameRepo) MarkSoldTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE deposited_games SET for_sale = 0, sold = 1
		 WHERE id = ? AND for_sale = 1 AND picked_up = 0 AND sold = 0`, id)
	if err != nil {
		return err
	}
	return affectedOr(res, ErrConflict)
}

// Delete removes a deposited game.
func (r *DepositedGameRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM deposited_games WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/boardgame-depot/internal/model"
)

// GameDescriptionRepo persists catalog entries.
type GameDescriptionRepo struct{ db *sql.DB }

func NewGameDescriptionRepo(db *sql.DB) *GameDescriptionRepo { return &GameDescriptionRepo{db: db} }

const gameDescriptionColumns = "id, name, publisher, photo_url, description, min_players, max_players, age_range, created_at"

func (r *GameDescriptionRepo) Create(ctx context.Context, g *model.GameDescription) error {
	g.CreatedAt = stamp(g.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO game_descriptions ("+gameDescriptionColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
		g.ID, g.Name, g.Publisher, g.PhotoURL, g.Description, g.MinPlayers, g.MaxPlayers, g.AgeRange, g.CreatedAt)
	return err
}

func (r *GameDescriptionRepo) GetByID(ctx context.Context, id string) (*model.GameDescription, error) {
	g, err := scanGameDescription(r.db.QueryRowContext(ctx,
		"SELECT "+gameDescriptionColumns+" FROM game_descriptions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func scanGameDescription(row scanner) (*model.GameDescription, error) {
	var g model.GameDescription
	if err := row.Scan(&g.ID, &g.Name, &g.Publisher, &g.PhotoURL, &g.Description,
		&g.MinPlayers, &g.MaxPlayers, &g.AgeRange, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GameDescriptionRepo) List(ctx context.Context) ([]*model.GameDescription, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+gameDescriptionColumns+" FROM game_descriptions ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.GameDescription{}
	for rows.Next() {
		g, err := scanGameDescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GameDescriptionRepo) Update(ctx context.Context, g *model.GameDescription) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE game_descriptions SET name = ?, publisher = ?, photo_url = ?, description = ?,
		        min_players = ?, max_players = ?, age_range = ?
		 WHERE id = ?`,
		g.Name, g.Publisher, g.PhotoURL, g.Description, g.MinPlayers, g.MaxPlayers, g.AgeRange, g.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *GameDescriptionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM game_descriptions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

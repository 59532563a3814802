package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

// GameDescriptionInput creates or partially updates a catalog entry.
type GameDescriptionInput struct {
	Name        *string `json:"name"`
	Publisher   *string `json:"publisher"`
	PhotoURL    *string `json:"photoURL"`
	Description *string `json:"description"`
	MinPlayers  *int    `json:"minPlayers"`
	MaxPlayers  *int    `json:"maxPlayers"`
	AgeRange    *string `json:"ageRange"`
}

type GameDescriptionService struct {
	catalog *repository.GameDescriptionRepo
}

func NewGameDescriptionService(catalog *repository.GameDescriptionRepo) *GameDescriptionService {
	return &GameDescriptionService{catalog: catalog}
}

func (in GameDescriptionInput) apply(g *model.GameDescription) {
	setTrimmed(&g.Name, in.Name)
	setTrimmed(&g.Publisher, in.Publisher)
	setTrimmed(&g.PhotoURL, in.PhotoURL)
	set(&g.Description, in.Description)
	set(&g.MinPlayers, in.MinPlayers)
	set(&g.MaxPlayers, in.MaxPlayers)
	setTrimmed(&g.AgeRange, in.AgeRange)
}

// validateGameDescription treats a zero player count as unset.
func validateGameDescription(g *model.GameDescription) error {
	if blank(g.Name) {
		return badRequest("name is required")
	}
	if g.MinPlayers < 0 || g.MaxPlayers < 0 {
		return badRequest("player counts must not be negative")
	}
	if g.MinPlayers > 0 && g.MaxPlayers > 0 && g.MinPlayers > g.MaxPlayers {
		return badRequest("minPlayers must not exceed maxPlayers")
	}
	return nil
}

func (s *GameDescriptionService) Create(ctx context.Context, in GameDescriptionInput) (*model.GameDescription, error) {
	if err := required(str("name", in.Name)); err != nil {
		return nil, err
	}
	g := &model.GameDescription{ID: uuid.NewString(), CreatedAt: time.Now()}
	in.apply(g)
	if err := validateGameDescription(g); err != nil {
		return nil, err
	}
	if err := s.catalog.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("creating game description: %w", err)
	}
	return g, nil
}

func (s *GameDescriptionService) FindAll(ctx context.Context) ([]*model.GameDescription, error) {
	return s.catalog.List(ctx)
}

func (s *GameDescriptionService) FindOne(ctx context.Context, id string) (*model.GameDescription, error) {
	g, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "game description", id)
	}
	return g, nil
}

func (s *GameDescriptionService) Update(ctx context.Context, id string, in GameDescriptionInput) (*model.GameDescription, error) {
	g, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(g)
	if err := validateGameDescription(g); err != nil {
		return nil, err
	}
	if err := s.catalog.Update(ctx, g); err != nil {
		return nil, write(err, "game description", id)
	}
	return g, nil
}

func (s *GameDescriptionService) Remove(ctx context.Context, id string) error {
	return write(s.catalog.Delete(ctx, id), "game description", id)
}

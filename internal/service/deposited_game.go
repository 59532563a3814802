package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/boardgame-depot/internal/logging"
	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

// DepositedGameInput creates or partially updates a deposited game.
// ForSale is honoured on create only; afterwards the status moves through
// SetForSale, RemoveFromSale and MarkAsPickedUp.
type DepositedGameInput struct {
	SessionID         *string          `json:"sessionId"`
	SellerID          *string          `json:"sellerId"`
	GameDescriptionID *string          `json:"gameDescriptionId"`
	SalePrice         *decimal.Decimal `json:"salePrice"`
	ForSale           *bool            `json:"forSale"`
}

// DepositedGameService runs the label lifecycle.
type DepositedGameService struct {
	games    *repository.DepositedGameRepo
	sessions *repository.SessionRepo
	sellers  *repository.SellerRepo
	catalog  *repository.GameDescriptionRepo
	logger   *slog.Logger
	now      func() time.Time
}

func NewDepositedGameService(repos *repository.Repos, logger *slog.Logger) *DepositedGameService {
	return &DepositedGameService{
		games:    repos.DepositedGames,
		sessions: repos.Sessions,
		sellers:  repos.Sellers,
		catalog:  repos.GameDescriptions,
		logger:   logger,
		now:      time.Now,
	}
}

// Create deposits a game into a session that is open now.
func (s *DepositedGameService) Create(ctx context.Context, in DepositedGameInput) (*model.DepositedGameDetail, error) {
	if err := required(str("sessionId", in.SessionID), str("sellerId", in.SellerID),
		str("gameDescriptionId", in.GameDescriptionID), present("salePrice", in.SalePrice)); err != nil {
		return nil, err
	}
	if err := validatePrice(*in.SalePrice); err != nil {
		return nil, err
	}
	if err := s.checkParties(ctx, *in.SellerID, *in.GameDescriptionID); err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetByID(ctx, *in.SessionID)
	if err != nil {
		return nil, lookup(err, "session", *in.SessionID)
	}
	if !sess.IsOpenAt(s.now()) {
		return nil, conflict("session %s is not open", sess.ID)
	}
	return s.insert(ctx, sess.ID, in)
}

// CreateInOpenSession deposits a game into the single session open now.
// With no open session, or more than one, the caller must say which.
func (s *DepositedGameService) CreateInOpenSession(ctx context.Context, in DepositedGameInput) (*model.DepositedGameDetail, error) {
	if err := required(str("sellerId", in.SellerID), str("gameDescriptionId", in.GameDescriptionID),
		present("salePrice", in.SalePrice)); err != nil {
		return nil, err
	}
	if err := validatePrice(*in.SalePrice); err != nil {
		return nil, err
	}
	if err := s.checkParties(ctx, *in.SellerID, *in.GameDescriptionID); err != nil {
		return nil, err
	}
	open, err := openSessions(ctx, s.sessions, s.now())
	if err != nil {
		return nil, err
	}
	switch len(open) {
	case 0:
		return nil, conflict("no session is open")
	case 1:
		return s.insert(ctx, open[0].ID, in)
	default:
		return nil, conflict("%d sessions are open, specify sessionId", len(open))
	}
}

func (s *DepositedGameService) insert(ctx context.Context, sessionID string, in DepositedGameInput) (*model.DepositedGameDetail, error) {
	g := &model.DepositedGame{
		ID:                uuid.NewString(),
		SessionID:         sessionID,
		SellerID:          *in.SellerID,
		GameDescriptionID: *in.GameDescriptionID,
		SalePrice:         *in.SalePrice,
		CreatedAt:         s.now(),
	}
	if in.ForSale != nil {
		g.ForSale = *in.ForSale
	}
	if err := s.games.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("creating deposited game: %w", err)
	}
	logging.Info(s.logger, "game deposited",
		logging.FieldLabelID, g.ID, logging.FieldSellerID, g.SellerID, logging.FieldSessionID, g.SessionID)
	return s.FindOne(ctx, g.ID)
}

func validatePrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return badRequest("salePrice must be greater than 0")
	}
	if !hasPlaces(p, moneyPlaces) {
		return badRequest("salePrice must have at most %d decimal places", moneyPlaces)
	}
	return nil
}

func (s *DepositedGameService) checkParties(ctx context.Context, sellerID, descID string) error {
	if _, err := s.sellers.GetByID(ctx, sellerID); err != nil {
		return lookup(err, "seller", sellerID)
	}
	if _, err := s.catalog.GetByID(ctx, descID); err != nil {
		return lookup(err, "game description", descID)
	}
	return nil
}

func (s *DepositedGameService) FindOne(ctx context.Context, id string) (*model.DepositedGameDetail, error) {
	d, err := s.games.GetDetail(ctx, id)
	if err != nil {
		return nil, lookup(err, "deposited game", id)
	}
	return d, nil
}

func (s *DepositedGameService) FindAll(ctx context.Context) ([]*model.DepositedGameDetail, error) {
	return s.games.ListDetails(ctx, repository.DepositedGameFilter{})
}

// FindBySellerID fails with NotFound when the seller has no games.
func (s *DepositedGameService) FindBySellerID(ctx context.Context, sellerID string) ([]*model.DepositedGameDetail, error) {
	out, err := s.games.ListDetails(ctx, repository.DepositedGameFilter{SellerID: sellerID})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, notFound("no deposited games for seller %s", sellerID)
	}
	return out, nil
}

func (s *DepositedGameService) FindBySessionID(ctx context.Context, sessionID string) ([]*model.DepositedGameDetail, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, lookup(err, "session", sessionID)
	}
	return s.games.ListDetails(ctx, repository.DepositedGameFilter{SessionID: sessionID})
}

func (s *DepositedGameService) FindBySellerAndSession(ctx context.Context, sellerID, sessionID string) ([]*model.DepositedGameDetail, error) {
	if _, err := s.sellers.GetByID(ctx, sellerID); err != nil {
		return nil, lookup(err, "seller", sellerID)
	}
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, lookup(err, "session", sessionID)
	}
	return s.games.ListDetails(ctx, repository.DepositedGameFilter{SellerID: sellerID, SessionID: sessionID})
}

// Update merges in into the stored game. Only references that are
// supplied get re-validated.
func (s *DepositedGameService) Update(ctx context.Context, id string, in DepositedGameInput) (*model.DepositedGameDetail, error) {
	if in.ForSale != nil {
		return nil, badRequest("forSale cannot be updated directly, use the for-sale endpoints")
	}
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "deposited game", id)
	}
	if in.SessionID != nil {
		if _, err := s.sessions.GetByID(ctx, *in.SessionID); err != nil {
			return nil, lookup(err, "session", *in.SessionID)
		}
		g.SessionID = *in.SessionID
	}
	if in.SellerID != nil {
		if _, err := s.sellers.GetByID(ctx, *in.SellerID); err != nil {
			return nil, lookup(err, "seller", *in.SellerID)
		}
		g.SellerID = *in.SellerID
	}
	if in.GameDescriptionID != nil {
		if _, err := s.catalog.GetByID(ctx, *in.GameDescriptionID); err != nil {
			return nil, lookup(err, "game description", *in.GameDescriptionID)
		}
		g.GameDescriptionID = *in.GameDescriptionID
	}
	if in.SalePrice != nil {
		if err := validatePrice(*in.SalePrice); err != nil {
			return nil, err
		}
		g.SalePrice = *in.SalePrice
	}
	if err := s.games.Update(ctx, g); err != nil {
		return nil, write(err, "deposited game", id)
	}
	return s.FindOne(ctx, id)
}

func (s *DepositedGameService) Remove(ctx context.Context, id string) error {
	return write(s.games.Delete(ctx, id), "deposited game", id)
}

// SetForSale lists a game. Picked-up and sold games cannot be listed.
func (s *DepositedGameService) SetForSale(ctx context.Context, id string) (*model.DepositedGameDetail, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "deposited game", id)
	}
	switch {
	case g.PickedUp:
		return nil, conflict("game %s was picked up and cannot be put on sale", id)
	case g.Sold:
		return nil, conflict("game %s is already sold", id)
	}
	if err := s.games.SetForSale(ctx, id); err != nil {
		return nil, s.transitionErr(err, id)
	}
	return s.FindOne(ctx, id)
}

func (s *DepositedGameService) RemoveFromSale(ctx context.Context, id string) (*model.DepositedGameDetail, error) {
	if err := s.games.RemoveFromSale(ctx, id); err != nil {
		return nil, write(err, "deposited game", id)
	}
	return s.FindOne(ctx, id)
}

// MarkAsPickedUp returns an unsold game to its seller for good.
func (s *DepositedGameService) MarkAsPickedUp(ctx context.Context, id string) (*model.DepositedGameDetail, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "deposited game", id)
	}
	if g.Sold {
		return nil, conflict("game %s is already sold", id)
	}
	if err := s.games.MarkPickedUp(ctx, id); err != nil {
		return nil, s.transitionErr(err, id)
	}
	return s.FindOne(ctx, id)
}

// transitionErr handles a guarded update that lost a race after the checks.
func (s *DepositedGameService) transitionErr(err error, id string) error {
	if errors.Is(err, repository.ErrConflict) {
		return conflict("game %s changed state, retry", id)
	}
	return write(err, "deposited game", id)
}

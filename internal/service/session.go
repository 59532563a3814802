package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

// SessionInput is used for both create and partial update; nil fields are
// left unchanged on update.
type SessionInput struct {
	Name           *string          `json:"name"`
	Location       *string          `json:"location"`
	StartDate      *time.Time       `json:"startDate"`
	EndDate        *time.Time       `json:"endDate"`
	SaleCommission *decimal.Decimal `json:"saleCommission"`
	DepositFee     *decimal.Decimal `json:"depositFee"`
}

// SessionService manages sale sessions.
type SessionService struct {
	sessions *repository.SessionRepo
	now      func() time.Time
}

func NewSessionService(sessions *repository.SessionRepo) *SessionService {
	return &SessionService{sessions: sessions, now: time.Now}
}

func (in SessionInput) apply(s *model.Session) {
	setTrimmed(&s.Name, in.Name)
	setTrimmed(&s.Location, in.Location)
	set(&s.StartDate, in.StartDate)
	set(&s.EndDate, in.EndDate)
	set(&s.SaleCommission, in.SaleCommission)
	set(&s.DepositFee, in.DepositFee)
}

func validateSession(s *model.Session) error {
	if blank(s.Name) {
		return badRequest("name is required")
	}
	if !s.EndDate.After(s.StartDate) {
		return badRequest("endDate must be after startDate")
	}
	if s.SaleCommission.IsNegative() || s.SaleCommission.GreaterThan(decimal.NewFromInt(1)) {
		return badRequest("saleCommission must be a fraction between 0 and 1")
	}
	if !hasPlaces(s.SaleCommission, commissionPlaces) {
		return badRequest("saleCommission must have at most %d decimal places", commissionPlaces)
	}
	if s.DepositFee.IsNegative() {
		return badRequest("depositFee must not be negative")
	}
	if !hasPlaces(s.DepositFee, moneyPlaces) {
		return badRequest("depositFee must have at most %d decimal places", moneyPlaces)
	}
	return nil
}

func (s *SessionService) Create(ctx context.Context, in SessionInput) (*model.Session, error) {
	if err := required(str("name", in.Name), present("startDate", in.StartDate),
		present("endDate", in.EndDate), present("saleCommission", in.SaleCommission)); err != nil {
		return nil, err
	}
	sess := &model.Session{ID: uuid.NewString(), CreatedAt: s.now()}
	in.apply(sess)
	if err := validateSession(sess); err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

func (s *SessionService) FindAll(ctx context.Context) ([]*model.Session, error) {
	return s.sessions.List(ctx)
}

func (s *SessionService) FindOne(ctx context.Context, id string) (*model.Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "session", id)
	}
	return sess, nil
}

func (s *SessionService) Update(ctx context.Context, id string, in SessionInput) (*model.Session, error) {
	sess, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(sess)
	if err := validateSession(sess); err != nil {
		return nil, err
	}
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, write(err, "session", id)
	}
	return sess, nil
}

func (s *SessionService) Remove(ctx context.Context, id string) error {
	return write(s.sessions.Delete(ctx, id), "session", id)
}

// IsOpen reports whether the session accepts deposits and sales now.
func (s *SessionService) IsOpen(ctx context.Context, id string) (bool, error) {
	sess, err := s.FindOne(ctx, id)
	if err != nil {
		return false, err
	}
	return sess.IsOpenAt(s.now()), nil
}

// OpenSessions lists the sessions whose window contains now.
func (s *SessionService) OpenSessions(ctx context.Context) ([]*model.Session, error) {
	return openSessions(ctx, s.sessions, s.now())
}

func openSessions(ctx context.Context, repo *repository.SessionRepo, at time.Time) ([]*model.Session, error) {
	all, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	open := []*model.Session{}
	for _, sess := range all {
		if sess.IsOpenAt(at) {
			open = append(open, sess)
		}
	}
	return open, nil
}

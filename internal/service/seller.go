package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

// SellerInput creates or partially updates a seller. The balance is not
// part of it; only sales move it.
type SellerInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type SellerService struct {
	sellers *repository.SellerRepo
}

func NewSellerService(sellers *repository.SellerRepo) *SellerService {
	return &SellerService{sellers: sellers}
}

func (in SellerInput) apply(s *model.Seller) {
	setTrimmed(&s.Name, in.Name)
	setTrimmed(&s.Email, in.Email)
	setTrimmed(&s.Phone, in.Phone)
}

func validateParty(name, email string) error {
	if blank(name) {
		return badRequest("name is required")
	}
	if blank(email) {
		return badRequest("email is required")
	}
	if !strings.Contains(email, "@") {
		return badRequest("email %q is not valid", email)
	}
	return nil
}

func (s *SellerService) Create(ctx context.Context, in SellerInput) (*model.Seller, error) {
	if err := required(str("name", in.Name), str("email", in.Email)); err != nil {
		return nil, err
	}
	seller := &model.Seller{ID: uuid.NewString(), AmountOwed: decimal.Zero, CreatedAt: time.Now()}
	in.apply(seller)
	if err := validateParty(seller.Name, seller.Email); err != nil {
		return nil, err
	}
	if err := s.sellers.Create(ctx, seller); err != nil {
		return nil, fmt.Errorf("creating seller: %w", err)
	}
	return seller, nil
}

func (s *SellerService) FindAll(ctx context.Context) ([]*model.Seller, error) {
	return s.sellers.List(ctx)
}

func (s *SellerService) FindOne(ctx context.Context, id string) (*model.Seller, error) {
	seller, err := s.sellers.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "seller", id)
	}
	return seller, nil
}

func (s *SellerService) Update(ctx context.Context, id string, in SellerInput) (*model.Seller, error) {
	seller, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(seller)
	if err := validateParty(seller.Name, seller.Email); err != nil {
		return nil, err
	}
	if err := s.sellers.Update(ctx, seller); err != nil {
		return nil, write(err, "seller", id)
	}
	return seller, nil
}

func (s *SellerService) Remove(ctx context.Context, id string) error {
	return write(s.sellers.Delete(ctx, id), "seller", id)
}

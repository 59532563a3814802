package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

// ClientInput creates or partially updates a client.
type ClientInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ClientService struct {
	clients *repository.ClientRepo
}

func NewClientService(clients *repository.ClientRepo) *ClientService {
	return &ClientService{clients: clients}
}

func (in ClientInput) apply(c *model.Client) {
	setTrimmed(&c.Name, in.Name)
	setTrimmed(&c.Email, in.Email)
	setTrimmed(&c.Phone, in.Phone)
	setTrimmed(&c.Address, in.Address)
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*model.Client, error) {
	if err := required(str("name", in.Name), str("email", in.Email)); err != nil {
		return nil, err
	}
	c := &model.Client{ID: uuid.NewString(), CreatedAt: time.Now()}
	in.apply(c)
	if err := validateParty(c.Name, c.Email); err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return c, nil
}

func (s *ClientService) FindAll(ctx context.Context) ([]*model.Client, error) {
	return s.clients.List(ctx)
}

func (s *ClientService) FindOne(ctx context.Context, id string) (*model.Client, error) {
	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "client", id)
	}
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in ClientInput) (*model.Client, error) {
	c, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := validateParty(c.Name, c.Email); err != nil {
		return nil, err
	}
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, write(err, "client", id)
	}
	return c, nil
}

func (s *ClientService) Remove(ctx context.Context, id string) error {
	return write(s.clients.Delete(ctx, id), "client", id)
}

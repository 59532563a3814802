package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/boardgame-depot/internal/database/dbtest"
	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/queue"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

type recordingPublisher struct {
	ch chan queue.SaleCompletedEvent
}

func (p *recordingPublisher) PublishSaleCompleted(_ context.Context, ev queue.SaleCompletedEvent) error {
	p.ch <- ev
	return nil
}

func (p *recordingPublisher) next(t *testing.T) queue.SaleCompletedEvent {
	t.Helper()
	select {
	case ev := <-p.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no sale event published")
		return queue.SaleCompletedEvent{}
	}
}

type env struct {
	db       *sql.DB
	repos    *repository.Repos
	auth     *AuthService
	sessions *SessionService
	sellers  *SellerService
	clients  *ClientService
	catalog  *GameDescriptionService
	games    *DepositedGameService
	sales    *TransactionService
	events   *recordingPublisher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	repos := repository.NewRepos(db)
	events := &recordingPublisher{ch: make(chan queue.SaleCompletedEvent, 16)}
	return &env{
		db:       db,
		repos:    repos,
		auth:     NewAuthService(repos.Managers, "test-secret", time.Hour, bcrypt.MinCost, nil),
		sessions: NewSessionService(repos.Sessions),
		sellers:  NewSellerService(repos.Sellers),
		clients:  NewClientService(repos.Clients),
		catalog:  NewGameDescriptionService(repos.GameDescriptions),
		games:    NewDepositedGameService(repos, nil),
		sales:    NewTransactionService(db, repos, events, nil, nil, false),
		events:   events,
	}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal { return ptr(decimal.RequireFromString(s)) }

func (e *env) session(t *testing.T, start, end time.Time, commission string) *model.Session {
	t.Helper()
	s, err := e.sessions.Create(context.Background(), SessionInput{
		Name: ptr("Fair"), StartDate: &start, EndDate: &end, SaleCommission: dec(commission),
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func (e *env) openSession(t *testing.T, commission string) *model.Session {
	now := time.Now()
	return e.session(t, now.Add(-24*time.Hour), now.Add(24*time.Hour), commission)
}

func (e *env) seller(t *testing.T) *model.Seller {
	t.Helper()
	s, err := e.sellers.Create(context.Background(), SellerInput{Name: ptr("Ada"), Email: ptr("ada@example.com")})
	if err != nil {
		t.Fatalf("create seller: %v", err)
	}
	return s
}

func (e *env) client(t *testing.T) *model.Client {
	t.Helper()
	c, err := e.clients.Create(context.Background(), ClientInput{Name: ptr("Bob"), Email: ptr("bob@example.com")})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func (e *env) description(t *testing.T) *model.GameDescription {
	t.Helper()
	g, err := e.catalog.Create(context.Background(), GameDescriptionInput{Name: ptr("Azul"), MinPlayers: ptr(2), MaxPlayers: ptr(4)})
	if err != nil {
		t.Fatalf("create description: %v", err)
	}
	return g
}

func (e *env) deposit(t *testing.T, sess *model.Session, seller *model.Seller, price string, forSale bool) *model.DepositedGameDetail {
	t.Helper()
	d, err := e.games.Create(context.Background(), DepositedGameInput{
		SessionID: &sess.ID, SellerID: &seller.ID, GameDescriptionID: ptr(e.description(t).ID),
		SalePrice: dec(price), ForSale: &forSale,
	})
	if err != nil {
		t.Fatalf("deposit game: %v", err)
	}
	return d
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

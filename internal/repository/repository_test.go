package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/boardgame-depot/internal/database/dbtest"
	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

type fixture struct {
	db       *sql.DB
	sessions *repository.SessionRepo
	sellers  *repository.SellerRepo
	clients  *repository.ClientRepo
	catalog  *repository.GameDescriptionRepo
	games    *repository.DepositedGameRepo
	txs      *repository.TransactionRepo
	managers *repository.ManagerRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	return &fixture{
		db:       db,
		sessions: repository.NewSessionRepo(db),
		sellers:  repository.NewSellerRepo(db),
		clients:  repository.NewClientRepo(db),
		catalog:  repository.NewGameDescriptionRepo(db),
		games:    repository.NewDepositedGameRepo(db),
		txs:      repository.NewTransactionRepo(db),
		managers: repository.NewManagerRepo(db),
	}
}

// seedGame creates a session, seller and catalog entry plus one listed game.
func (f *fixture) seedGame(t *testing.T) *model.DepositedGame {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	session := &model.Session{
		ID: uuid.NewString(), Name: "Spring fair",
		StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour),
		SaleCommission: decimal.RequireFromString("0.1"), CreatedAt: now,
	}
	if err := f.sessions.Create(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}
	seller := &model.Seller{ID: uuid.NewString(), Name: "Ada", Email: "ada@example.com", CreatedAt: now}
	if err := f.sellers.Create(ctx, seller); err != nil {
		t.Fatalf("create seller: %v", err)
	}
	desc := &model.GameDescription{ID: uuid.NewString(), Name: "Carcassonne", MinPlayers: 2, MaxPlayers: 5, CreatedAt: now}
	if err := f.catalog.Create(ctx, desc); err != nil {
		t.Fatalf("create description: %v", err)
	}
	game := &model.DepositedGame{
		ID: uuid.NewString(), SessionID: session.ID, SellerID: seller.ID, GameDescriptionID: desc.ID,
		SalePrice: decimal.NewFromInt(20), ForSale: true, CreatedAt: now,
	}
	if err := f.games.Create(ctx, game); err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func TestManagerDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := &model.Manager{ID: uuid.NewString(), Email: "Boss@Example.com", PasswordHash: "x", CreatedAt: time.Now()}
	if err := f.managers.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dup := &model.Manager{ID: uuid.NewString(), Email: "boss@example.com", PasswordHash: "y", CreatedAt: time.Now()}
	if err := f.managers.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := f.managers.GetByEmail(ctx, "  BOSS@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("expected %s, got %s", m.ID, got.ID)
	}
	if _, err := f.managers.GetByID(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRoundTripKeepsCommission(t *testing.T) {
	f := newFixture(t)
	game := f.seedGame(t)

	s, err := f.sessions.GetByID(context.Background(), game.SessionID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !s.SaleCommission.Equal(decimal.RequireFromString("0.1")) {
		t.Errorf("expected commission 0.1, got %s", s.SaleCommission)
	}
	if !s.IsOpenAt(time.Now()) {
		t.Error("expected seeded session to be open now")
	}
}

func TestMarkSoldOnlyOnce(t *testing.T) {
	f := newFixture(t)
	game := f.seedGame(t)
	ctx := context.Background()

	sell := func() error {
		tx, err := f.db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		defer tx.Rollback()
		if err := f.games.MarkSoldTx(ctx, tx, game.ID); err != nil {
			return err
		}
		return tx.Commit()
	}

	if err := sell(); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	if err := sell(); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("second sale: expected ErrConflict, got %v", err)
	}

	got, _ := f.games.GetByID(ctx, game.ID)
	if !got.Sold || got.ForSale {
		t.Errorf("expected sold and unlisted, got %+v", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)
	game := f.seedGame(t)
	ctx := context.Background()

	if err := f.games.RemoveFromSale(ctx, game.ID); err != nil {
		t.Fatalf("RemoveFromSale: %v", err)
	}
	if err := f.games.SetForSale(ctx, game.ID); err != nil {
		t.Fatalf("SetForSale: %v", err)
	}
	// listing twice still matches the row
	if err := f.games.SetForSale(ctx, game.ID); err != nil {
		t.Fatalf("SetForSale again: %v", err)
	}
	if err := f.games.MarkPickedUp(ctx, game.ID); err != nil {
		t.Fatalf("MarkPickedUp: %v", err)
	}
	if err := f.games.SetForSale(ctx, game.ID); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("SetForSale after pickup: expected ErrConflict, got %v", err)
	}

	got, _ := f.games.GetByID(ctx, game.ID)
	if got.ForSale || !got.PickedUp {
		t.Errorf("expected picked up and unlisted, got %+v", got)
	}
	if err := f.games.RemoveFromSale(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddToAmountOwed(t *testing.T) {
	f := newFixture(t)
	game := f.seedGame(t)
	ctx := context.Background()

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	for _, amt := range []string{"18", "4.5"} {
		if err := f.sellers.AddToAmountOwedTx(ctx, tx, game.SellerID, decimal.RequireFromString(amt)); err != nil {
			t.Fatalf("AddToAmountOwedTx: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	s, _ := f.sellers.GetByID(ctx, game.SellerID)
	if !s.AmountOwed.Equal(decimal.RequireFromString("22.5")) {
		t.Errorf("expected 22.5 owed, got %s", s.AmountOwed)
	}
}

func TestDepositedGameDetails(t *testing.T) {
	f := newFixture(t)
	game := f.seedGame(t)
	ctx := context.Background()

	d, err := f.games.GetDetail(ctx, game.ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if d.Session.Name != "Spring fair" || d.Seller.Name != "Ada" || d.GameDescription.Name != "Carcassonne" {
		t.Errorf("references not resolved: %+v", d)
	}
	if d.GameDescription.MaxPlayers != 5 {
		t.Errorf("expected max players 5, got %d", d.GameDescription.MaxPlayers)
	}

	bySeller, err := f.games.ListDetails(ctx, repository.DepositedGameFilter{SellerID: game.SellerID})
	if err != nil || len(bySeller) != 1 {
		t.Fatalf("ListDetails by seller: %d, %v", len(bySeller), err)
	}
	none, err := f.games.ListDetails(ctx, repository.DepositedGameFilter{SellerID: game.SellerID, SessionID: "other"})
	if err != nil || len(none) != 0 {
		t.Fatalf("ListDetails by seller+other session: %d, %v", len(none), err)
	}

	// the game stays listed after its seller is gone
	if err := f.sellers.Delete(ctx, game.SellerID); err != nil {
		t.Fatalf("delete seller: %v", err)
	}
	d, err = f.games.GetDetail(ctx, game.ID)
	if err != nil {
		t.Fatalf("GetDetail after delete: %v", err)
	}
	if d.Seller.Name != "" || d.Seller.ID != game.SellerID {
		t.Errorf("expected empty seller ref with id kept, got %+v", d.Seller)
	}
}

func TestTransactionDetailsAndFilters(t *testing.T) {
	f := newFixture(t)
	game := f.seedGame(t)
	ctx := context.Background()

	client := &model.Client{ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com", CreatedAt: time.Now()}
	if err := f.clients.Create(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}
	mgr := &model.Manager{ID: uuid.NewString(), Email: "m@example.com", FirstName: "Grace", LastName: "Hopper", PasswordHash: "x", CreatedAt: time.Now()}
	if err := f.managers.Create(ctx, mgr); err != nil {
		t.Fatalf("create manager: %v", err)
	}

	rec := &model.Transaction{
		ID: uuid.NewString(), LabelID: game.ID, SessionID: game.SessionID, SellerID: game.SellerID,
		ClientID: client.ID, ManagerID: mgr.ID, TransactionDate: time.Now(),
	}
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := f.txs.CreateTx(ctx, tx, rec); err != nil {
		t.Fatalf("CreateTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	d, err := f.txs.GetDetail(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if d.Label.GameName != "Carcassonne" || !d.Label.SalePrice.Equal(decimal.NewFromInt(20)) {
		t.Errorf("label not resolved: %+v", d.Label)
	}
	if d.Client.Name != "Bob" || d.Manager.FirstName != "Grace" || d.SessionName != "Spring fair" {
		t.Errorf("refs not resolved: %+v", d)
	}

	byClient, _ := f.txs.ListDetails(ctx, repository.TransactionFilter{ClientID: client.ID})
	if len(byClient) != 1 {
		t.Errorf("expected 1 transaction for client, got %d", len(byClient))
	}
	bySeller, _ := f.txs.ListDetails(ctx, repository.TransactionFilter{SellerID: "nobody"})
	if len(bySeller) != 0 {
		t.Errorf("expected 0 transactions for unknown seller, got %d", len(bySeller))
	}

	if err := f.txs.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.txs.GetByID(ctx, rec.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

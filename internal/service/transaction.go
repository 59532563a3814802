package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/boardgame-depot/internal/logging"
	"github.com/iliyamo/boardgame-depot/internal/metrics"
	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/queue"
	"github.com/iliyamo/boardgame-depot/internal/repository"
)

// SaleEventPublisher receives one event per committed sale.
type SaleEventPublisher interface {
	PublishSaleCompleted(ctx context.Context, ev queue.SaleCompletedEvent) error
}

// SaleInput names what is sold to whom.
type SaleInput struct {
	LabelID   string `json:"labelId"`
	SessionID string `json:"sessionId"`
	SellerID  string `json:"sellerId"`
	ClientID  string `json:"clientId"`
}

// TransactionInput partially updates a transaction record.
type TransactionInput struct {
	LabelID         *string    `json:"labelId"`
	SessionID       *string    `json:"sessionId"`
	SellerID        *string    `json:"sellerId"`
	ClientID        *string    `json:"clientId"`
	ManagerID       *string    `json:"managerId"`
	TransactionDate *time.Time `json:"transactionDate"`
}

// TransactionService records sales. A sale flips the game to sold, credits
// the seller and inserts the transaction in one SQL transaction.
type TransactionService struct {
	db       *sql.DB
	txs      *repository.TransactionRepo
	games    *repository.DepositedGameRepo
	sessions *repository.SessionRepo
	sellers  *repository.SellerRepo
	clients  *repository.ClientRepo
	events   SaleEventPublisher
	metrics  *metrics.Recorder
	logger   *slog.Logger

	// bulkPercent divides the commission by 100 in the bulk path, as the
	// legacy system did.
	bulkPercent bool
	now         func() time.Time
}

func NewTransactionService(db *sql.DB, repos *repository.Repos, events SaleEventPublisher,
	rec *metrics.Recorder, logger *slog.Logger, bulkCommissionAsPercent bool) *TransactionService {
	if events == nil {
		events = queue.Discard{}
	}
	return &TransactionService{
		db:          db,
		txs:         repos.Transactions,
		games:       repos.DepositedGames,
		sessions:    repos.Sessions,
		sellers:     repos.Sellers,
		clients:     repos.Clients,
		events:      events,
		metrics:     rec,
		logger:      logger,
		bulkPercent: bulkCommissionAsPercent,
		now:         time.Now,
	}
}

// sale is a committed sale kept for the post-commit side effects.
type sale struct {
	tx         *model.Transaction
	price      decimal.Decimal
	commission decimal.Decimal
	payout     decimal.Decimal
}

// payout is what the seller receives: price minus the commission share,
// rounded to the cent so the credited balance and the event agree.
func payout(price, commission decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Mul(commission)).Round(moneyPlaces)
}

// CreateTransaction sells one label to a client inside an open session.
func (s *TransactionService) CreateTransaction(ctx context.Context, in SaleInput, managerID string) (*model.Transaction, error) {
	if err := required(field{"labelId", blank(in.LabelID)}, field{"sessionId", blank(in.SessionID)},
		field{"sellerId", blank(in.SellerID)}, field{"clientId", blank(in.ClientID)}); err != nil {
		return nil, err
	}
	if managerID == "" {
		return nil, unauthorized("manager identity missing")
	}
	now := s.now()

	var done sale
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		game, err := s.games.GetByIDTx(ctx, tx, in.LabelID)
		if err != nil {
			return lookup(err, "deposited game", in.LabelID)
		}
		if !game.Available() {
			return conflict("game %s is not available for sale", game.ID)
		}
		sess, err := s.sessions.GetByIDTx(ctx, tx, in.SessionID)
		if err != nil {
			return lookup(err, "session", in.SessionID)
		}
		if !sess.IsOpenAt(now) {
			return conflict("session %s is not open", sess.ID)
		}
		if _, err := s.clients.GetByIDTx(ctx, tx, in.ClientID); err != nil {
			return lookup(err, "client", in.ClientID)
		}
		if _, err := s.sellers.GetByIDTx(ctx, tx, in.SellerID); err != nil {
			return lookup(err, "seller", in.SellerID)
		}
		if err := checkOwnership(game, in); err != nil {
			return err
		}

		done, err = s.sell(ctx, tx, game, sess.SaleCommission, in, managerID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, metrics.ModeSingle, []sale{done})
	return done.tx, nil
}

// CreateMultipleTransactions sells every item or none. Items skip the
// session-window and client checks of the single path.
func (s *TransactionService) CreateMultipleTransactions(ctx context.Context, items []SaleInput, managerID string) ([]*model.Transaction, error) {
	if len(items) == 0 {
		return nil, badRequest("at least one transaction is required")
	}
	if managerID == "" {
		return nil, unauthorized("manager identity missing")
	}
	now := s.now()

	sales := make([]sale, 0, len(items))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i, in := range items {
			if err := required(field{"labelId", blank(in.LabelID)}, field{"sessionId", blank(in.SessionID)},
				field{"sellerId", blank(in.SellerID)}); err != nil {
				return itemErr(i, err)
			}
			game, err := s.games.GetByIDTx(ctx, tx, in.LabelID)
			if err != nil {
				return itemErr(i, lookup(err, "deposited game", in.LabelID))
			}
			if !game.Available() {
				return itemErr(i, conflict("game %s is not available for sale", game.ID))
			}
			sess, err := s.sessions.GetByIDTx(ctx, tx, in.SessionID)
			if err != nil {
				return itemErr(i, lookup(err, "session", in.SessionID))
			}
			if _, err := s.sellers.GetByIDTx(ctx, tx, in.SellerID); err != nil {
				return itemErr(i, lookup(err, "seller", in.SellerID))
			}
			if err := checkOwnership(game, in); err != nil {
				return itemErr(i, err)
			}

			commission := sess.SaleCommission
			if s.bulkPercent {
				commission = commission.Div(decimal.NewFromInt(100))
			}
			done, err := s.sell(ctx, tx, game, commission, in, managerID, now)
			if err != nil {
				return itemErr(i, err)
			}
			sales = append(sales, done)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, metrics.ModeBulk, sales)
	out := make([]*model.Transaction, len(sales))
	for i := range sales {
		out[i] = sales[i].tx
	}
	return out, nil
}

// checkOwnership keeps a sale from crediting a seller, or booking a
// session, that the label does not belong to.
func checkOwnership(game *model.DepositedGame, in SaleInput) error {
	if game.SellerID != in.SellerID {
		return badRequest("game %s does not belong to seller %s", game.ID, in.SellerID)
	}
	if game.SessionID != in.SessionID {
		return badRequest("game %s is not deposited in session %s", game.ID, in.SessionID)
	}
	return nil
}

// sell performs the three writes of a sale on tx.
func (s *TransactionService) sell(ctx context.Context, tx *sql.Tx, game *model.DepositedGame,
	commission decimal.Decimal, in SaleInput, managerID string, now time.Time) (sale, error) {
	if err := s.games.MarkSoldTx(ctx, tx, game.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return sale{}, conflict("game %s is not available for sale", game.ID)
		}
		return sale{}, fmt.Errorf("marking game sold: %w", err)
	}

	amount := payout(game.SalePrice, commission)
	if err := s.sellers.AddToAmountOwedTx(ctx, tx, in.SellerID, amount); err != nil {
		return sale{}, write(err, "seller", in.SellerID)
	}

	rec := &model.Transaction{
		ID:              uuid.NewString(),
		LabelID:         game.ID,
		SessionID:       in.SessionID,
		SellerID:        in.SellerID,
		ClientID:        in.ClientID,
		ManagerID:       managerID,
		TransactionDate: now,
	}
	if err := s.txs.CreateTx(ctx, tx, rec); err != nil {
		return sale{}, fmt.Errorf("inserting transaction: %w", err)
	}
	return sale{tx: rec, price: game.SalePrice, commission: commission, payout: amount}, nil
}

// inTx runs fn in a transaction and commits when it returns nil.
func (s *TransactionService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// afterCommit records metrics and hands events to the publisher in the
// background. A failed publish never undoes a sale.
func (s *TransactionService) afterCommit(ctx context.Context, mode string, sales []sale) {
	events := make([]queue.SaleCompletedEvent, 0, len(sales))
	for _, sl := range sales {
		s.metrics.RecordSale(mode, sl.price, sl.payout)
		logging.Info(s.logger, "sale recorded",
			logging.FieldLabelID, sl.tx.LabelID, logging.FieldSellerID, sl.tx.SellerID,
			logging.FieldManagerID, sl.tx.ManagerID, "payout", sl.payout.String(), "mode", mode)
		events = append(events, queue.SaleCompletedEvent{
			TransactionID: sl.tx.ID,
			LabelID:       sl.tx.LabelID,
			SessionID:     sl.tx.SessionID,
			SellerID:      sl.tx.SellerID,
			ClientID:      sl.tx.ClientID,
			ManagerID:     sl.tx.ManagerID,
			Mode:          mode,
			SalePrice:     sl.price.String(),
			Commission:    sl.commission.String(),
			SellerPayout:  sl.payout.String(),
			SoldAt:        sl.tx.TransactionDate.UTC().Format(time.RFC3339),
		})
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		pctx, cancel := context.WithTimeout(bg, publishBudget)
		defer cancel()
		s.publish(pctx, events)
	}()
}

// publishBudget bounds the background publishing of one sale or batch.
const publishBudget = 10 * time.Second

// publish sends events in order and gives up on the rest once ctx is done.
func (s *TransactionService) publish(ctx context.Context, events []queue.SaleCompletedEvent) {
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			logging.Warn(s.logger, "sale events dropped", "error", err, "count", len(events)-i)
			return
		}
		if err := s.events.PublishSaleCompleted(ctx, ev); err != nil {
			logging.Warn(s.logger, "sale event not published", "error", err, "transaction_id", ev.TransactionID)
		}
	}
}

func itemErr(i int, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return &Error{Kind: se.Kind, Msg: fmt.Sprintf("item %d: %s", i, se.Msg)}
	}
	return fmt.Errorf("item %d: %w", i, err)
}

func (s *TransactionService) FindAll(ctx context.Context) ([]*model.TransactionDetail, error) {
	return s.txs.ListDetails(ctx, repository.TransactionFilter{})
}

func (s *TransactionService) FindOne(ctx context.Context, id string) (*model.TransactionDetail, error) {
	d, err := s.txs.GetDetail(ctx, id)
	if err != nil {
		return nil, lookup(err, "transaction", id)
	}
	return d, nil
}

func (s *TransactionService) FindBySessionID(ctx context.Context, sessionID string) ([]*model.TransactionDetail, error) {
	return s.txs.ListDetails(ctx, repository.TransactionFilter{SessionID: sessionID})
}

// FindByClientID fails with NotFound when the client bought nothing.
func (s *TransactionService) FindByClientID(ctx context.Context, clientID string) ([]*model.TransactionDetail, error) {
	out, err := s.txs.ListDetails(ctx, repository.TransactionFilter{ClientID: clientID})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, notFound("no transactions for client %s", clientID)
	}
	return out, nil
}

// FindBySellerID fails with NotFound when the seller sold nothing.
func (s *TransactionService) FindBySellerID(ctx context.Context, sellerID string) ([]*model.TransactionDetail, error) {
	out, err := s.txs.ListDetails(ctx, repository.TransactionFilter{SellerID: sellerID})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, notFound("no transactions for seller %s", sellerID)
	}
	return out, nil
}

// Update edits the record only; game status and seller balance stay as
// they are.
func (s *TransactionService) Update(ctx context.Context, id string, in TransactionInput) (*model.Transaction, error) {
	t, err := s.txs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "transaction", id)
	}
	setTrimmed(&t.LabelID, in.LabelID)
	setTrimmed(&t.SessionID, in.SessionID)
	setTrimmed(&t.SellerID, in.SellerID)
	setTrimmed(&t.ClientID, in.ClientID)
	setTrimmed(&t.ManagerID, in.ManagerID)
	set(&t.TransactionDate, in.TransactionDate)
	if blank(t.LabelID) || blank(t.SessionID) || blank(t.SellerID) || blank(t.ManagerID) {
		return nil, badRequest("labelId, sessionId, sellerId and managerId cannot be empty")
	}
	if err := s.txs.Update(ctx, t); err != nil {
		return nil, write(err, "transaction", id)
	}
	return t, nil
}

// Remove deletes the record only.
func (s *TransactionService) Remove(ctx context.Context, id string) error {
	return write(s.txs.Delete(ctx, id), "transaction", id)
}

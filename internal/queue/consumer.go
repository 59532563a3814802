package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/boardgame-depot/internal/logging"
)

// LedgerFile is the file name the consumer appends to inside its directory.
const LedgerFile = "sales.log"

// Consumer reads SaleCompletedQueue and appends one line per sale to
// <dir>/sales.log.
type Consumer struct {
	url    string
	dir    string
	logger *slog.Logger
}

// NewConsumer returns a consumer writing its ledger under dir.
func NewConsumer(url, dir string, logger *slog.Logger) *Consumer {
	if dir == "" {
		dir = "logs"
	}
	return &Consumer{url: url, dir: dir, logger: logger}
}

// Run connects, consumes and reconnects with backoff until ctx is cancelled.
// It only returns ctx.Err().
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			logging.Warn(c.logger, "sales consumer dial failed", "error", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn(c.logger, "sales consumer loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn(c.logger, "sales consumer set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(SaleCompletedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(SaleCompletedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				logging.Error(c.logger, "sales consumer handle message failed", err)
				_ = d.Nack(false, false) // no requeue, avoids a poison-message loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev SaleCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.TransactionID == "" {
		return errors.New("event without transaction id")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, LedgerFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatSaleLine(ev)); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// FormatSaleLine renders ev as one newline-terminated ledger line.
func FormatSaleLine(ev SaleCompletedEvent) string {
	client := ev.ClientID
	if client == "" {
		client = "-"
	}
	return fmt.Sprintf("[%s] Sale completed | mode=%s | transaction_id=%s | label_id=%s | session_id=%s | seller_id=%s | client_id=%s | manager_id=%s | price=%s | commission=%s | payout=%s\n",
		ev.SoldAt, ev.Mode, ev.TransactionID, ev.LabelID, ev.SessionID, ev.SellerID, client, ev.ManagerID,
		ev.SalePrice, ev.Commission, ev.SellerPayout)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/boardgame-depot/internal/logging"
)

// Publisher sends sale events to RabbitMQ. It dials per publish; sales are
// infrequent enough that a held connection is not worth its reconnect logic.
// Errors are logged and returned so callers may ignore them.
type Publisher struct {
	url    string
	logger *slog.Logger
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishSaleCompleted publishes ev as a persistent message on
// SaleCompletedQueue.
func (p *Publisher) PublishSaleCompleted(ctx context.Context, ev SaleCompletedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx, dialTimeout),
	})
	if err != nil {
		logging.Warn(p.logger, "rabbitmq dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logging.Warn(p.logger, "rabbitmq channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		SaleCompletedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		logging.Warn(p.logger, "rabbitmq queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.TransactionID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", SaleCompletedQueue, false, false, pub); err != nil {
		logging.Warn(p.logger, "rabbitmq publish failed", "error", err, logging.FieldLabelID, ev.LabelID)
		return err
	}
	return nil
}

const dialTimeout = 3 * time.Second

// dialContext is amqp.DefaultDial bounded by ctx as well as timeout. The
// deadline covers the handshake; amqp clears it once the connection opens.
func dialContext(ctx context.Context, timeout time.Duration) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// Discard is a publisher for deployments with events turned off.
type Discard struct{}

func (Discard) PublishSaleCompleted(context.Context, SaleCompletedEvent) error { return nil }

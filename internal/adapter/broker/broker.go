package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
)

const (
	// ExternalUpdatesQueue receives status updates pushed by the external order store.
	ExternalUpdatesQueue = "tableside.status.external"
	// ExternalUpdatesKey is the routing key bound to ExternalUpdatesQueue.
	ExternalUpdatesKey = "order.status.external"

	TableOccupiedKey = "table.occupied"
	TableFreedKey    = "table.freed"

	publishTimeout = 5 * time.Second
	prefetch       = 16
)

// StatusKey returns the routing key for a status change event.
func StatusKey(status model.OrderStatus) string {
	return "order.status." + string(status)
}

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Broker publishes order and table events to a RabbitMQ topic exchange and
// consumes external status updates.
type Broker struct {
	conn     io.Closer
	publish  channel
	consume  channel
	exchange string
	logger   *slog.Logger

	mu sync.Mutex
}

// Dial connects to RabbitMQ and declares the exchange and queue.
func Dial(url, exchange string, logger *slog.Logger) (*Broker, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	pub, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open publish channel: %w", err)
	}
	sub, err := conn.Channel()
	if err != nil {
		pub.Close()
		conn.Close()
		return nil, fmt.Errorf("open consume channel: %w", err)
	}

	b, err := newBroker(conn, pub, sub, exchange, logger)
	if err != nil {
		sub.Close()
		pub.Close()
		conn.Close()
		return nil, err
	}
	return b, nil
}

func newBroker(conn io.Closer, pub, sub channel, exchange string, logger *slog.Logger) (*Broker, error) {
	b := &Broker{conn: conn, publish: pub, consume: sub, exchange: exchange, logger: logger}
	if err := b.declareTopology(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Broker) declareTopology() error {
	if err := b.publish.ExchangeDeclare(b.exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := b.consume.QueueDeclare(ExternalUpdatesQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := b.consume.QueueBind(ExternalUpdatesQueue, ExternalUpdatesKey, b.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// StatusChanged publishes a status change event.
func (b *Broker) StatusChanged(ctx context.Context, change model.StatusChange) error {
	return b.publishJSON(ctx, StatusKey(change.NewStatus), change)
}

// TableOccupied publishes a table occupied event.
func (b *Broker) TableOccupied(ctx context.Context, event model.TableEvent) error {
	return b.publishJSON(ctx, TableOccupiedKey, event)
}

// TableFreed publishes a table freed event.
func (b *Broker) TableFreed(ctx context.Context, event model.TableEvent) error {
	return b.publishJSON(ctx, TableFreedKey, event)
}

func (b *Broker) publishJSON(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	b.mu.Lock()
	defer b.mu.Unlock()

	err = b.publish.PublishWithContext(ctx, b.exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// Consume delivers external status updates to handle until ctx is cancelled
// or the delivery channel closes. Malformed messages are dropped; messages
// whose handling failed because storage was unavailable are requeued.
func (b *Broker) Consume(ctx context.Context, handle func(context.Context, model.StatusUpdate) error) error {
	if err := b.consume.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := b.consume.Consume(ExternalUpdatesQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ExternalUpdatesQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("amqp deliveries channel closed")
			}
			b.handleDelivery(ctx, d, handle)
		}
	}
}

func (b *Broker) handleDelivery(ctx context.Context, d amqp.Delivery, handle func(context.Context, model.StatusUpdate) error) {
	var update model.StatusUpdate
	if err := json.Unmarshal(d.Body, &update); err != nil || update.OrderID == "" {
		b.logger.Warn("dropping malformed status update", slog.String("body", string(d.Body)))
		_ = d.Nack(false, false)
		return
	}

	if err := handle(ctx, update); err != nil {
		requeue := errors.Is(err, domainErrors.ErrPersistenceUnavailable)
		b.logger.Error("apply external status update failed",
			slog.String("order_id", update.OrderID),
			slog.Bool("requeue", requeue),
			slog.String("error", err.Error()),
		)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}

// Close closes channels and the connection.
func (b *Broker) Close() error {
	var errs []error
	if b.consume != nil {
		errs = append(errs, b.consume.Close())
	}
	if b.publish != nil {
		errs = append(errs, b.publish.Close())
	}
	if b.conn != nil {
		errs = append(errs, b.conn.Close())
	}
	return errors.Join(errs...)
}

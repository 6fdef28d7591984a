package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// ExchangeName is the durable topic exchange domain events go through.
	ExchangeName = "mindful.domain.events"

	// DefaultConsumerQueueName is the worker's durable queue.
	DefaultConsumerQueueName = "mindful.consumer"
)

// dialTopic connects and declares the topic exchange. Both ends declare it
// so either may start first.
func dialTopic(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

func closeAMQP(conn *amqp.Connection, ch *amqp.Channel) error {
	var errs []error
	for _, c := range []interface{ Close() error }{ch, conn} {
		if err := c.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RabbitMQPublisher publishes persistent JSON messages to ExchangeName.
type RabbitMQPublisher struct {
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, ch, err := dialTopic(url, ExchangeName)
	if err != nil {
		return nil, err
	}
	logger.Info("rabbitmq publisher connected", "exchange", ExchangeName)
	return &RabbitMQPublisher{logger: logger, conn: conn, ch: ch}, nil
}

// Publish is safe for concurrent use; amqp channels are not, so calls
// are serialized.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return closeAMQP(p.conn, p.ch)
}

// RabbitMQConsumerConfig configures NewRabbitMQConsumer. Empty QueueName
// and Exchange fall back to the package defaults.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	Logger    *slog.Logger
}

// RabbitMQConsumer feeds a durable queue into a ConsumerRegistry.
type RabbitMQConsumer struct {
	cfg      RabbitMQConsumerConfig
	registry *ConsumerRegistry
	logger   *slog.Logger
	conn     *amqp.Connection
	ch       *amqp.Channel
}

func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultConsumerQueueName
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}

	conn, ch, err := dialTopic(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = closeAMQP(conn, ch)
		return nil, fmt.Errorf("declare queue %s: %w", cfg.QueueName, err)
	}
	return &RabbitMQConsumer{cfg: cfg, registry: registry, logger: cfg.Logger, conn: conn, ch: ch}, nil
}

// Start binds every registered routing key and consumes until ctx is done.
// A delivery whose consumers fail is requeued once; a second failure or
// an undecodable body is dropped.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	keys := c.registry.RoutingKeys()
	for _, key := range keys {
		if err := c.ch.QueueBind(c.cfg.QueueName, key, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.cfg.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.cfg.QueueName, err)
	}
	c.logger.Info("rabbitmq consumer started", "queue", c.cfg.QueueName, "routing_keys", keys)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("rabbitmq delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *RabbitMQConsumer) handle(ctx context.Context, d amqp.Delivery) {
	event, err := decodeEnvelope(d.RoutingKey, d.Body)
	if err != nil {
		c.logger.Error("dropping undecodable delivery", "routing_key", d.RoutingKey, "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := c.registry.Dispatch(ctx, event); err != nil {
		requeue := !d.Redelivered
		c.logger.Error("event consumer failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"correlation_id", event.Metadata.CorrelationID,
			"requeue", requeue,
			"error", err,
		)
		_ = d.Nack(false, requeue)
		return
	}
	if err := d.Ack(false); err != nil {
		c.logger.Warn("ack failed", "event_id", event.EventID, "error", err)
	}
}

func (c *RabbitMQConsumer) Close() error {
	return closeAMQP(c.conn, c.ch)
}

package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// InProcessEventBus delivers events synchronously to local consumers. It
// stands in for RabbitMQ when no broker is configured.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger

	// serializes dispatch so consumers never see events out of order
	mu sync.Mutex
}

func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{registry: NewConsumerRegistry(logger), logger: logger}
}

func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish decodes the envelope and dispatches it. Consumer failures are
// logged, not returned: a local side effect failing must not leave the
// outbox row unpublished and redelivered to consumers that succeeded.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	event, err := decodeEnvelope(routingKey, payload)
	if err != nil {
		b.logger.Error("dropping undecodable event", "routing_key", routingKey, "error", err)
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event consumer failed",
			"routing_key", event.RoutingKey,
			"event_id", event.EventID,
			"correlation_id", event.Metadata.CorrelationID,
			"error", err,
		)
	}
	return nil
}

func (b *InProcessEventBus) Close() error { return nil }

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// ConsumerRegistry routes events to consumers by routing key.
type ConsumerRegistry struct {
	logger *slog.Logger

	mu     sync.RWMutex
	routes map[string][]EventConsumer
}

func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger, routes: map[string][]EventConsumer{}}
}

// Register subscribes consumer to each key it declares.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range consumer.EventTypes() {
		r.routes[key] = append(r.routes[key], consumer)
	}
}

// RoutingKeys lists the keys with at least one consumer, sorted.
func (r *ConsumerRegistry) RoutingKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.routes))
	for k := range r.routes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Dispatch runs every consumer for the event's key in registration order.
// One consumer failing does not stop the rest; all failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	r.mu.RLock()
	consumers := slices.Clone(r.routes[event.RoutingKey])
	r.mu.RUnlock()

	start := time.Now()
	var errs []error
	for _, c := range consumers {
		if err := c.Handle(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", c, err))
		}
	}

	err := errors.Join(errs...)
	r.logger.Debug("event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"consumers", len(consumers),
		"failed", len(errs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return err
}

package cache

import (
	"context"
	"log/slog"

	goals "github.com/felixgeelhaar/mindful/internal/goals/domain"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/eventbus"
)

// Invalidatable is a cache that can be cleared.
type Invalidatable interface {
	Invalidate(ctx context.Context) error
}

// Invalidator clears cached statistics whenever sessions or goals change.
type Invalidator struct {
	cache  Invalidatable
	logger *slog.Logger
}

// NewInvalidator creates an event consumer that invalidates cache.
func NewInvalidator(cache Invalidatable, logger *slog.Logger) *Invalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invalidator{cache: cache, logger: logger}
}

// EventTypes returns every session and goal routing key.
func (i *Invalidator) EventTypes() []string {
	types := append([]string{}, practice.SessionRoutingKeys...)
	return append(types,
		goals.RoutingKeyGoalCreated,
		goals.RoutingKeyGoalUpdated,
		goals.RoutingKeyGoalDeleted,
	)
}

// Handle drops the cache.
func (i *Invalidator) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if err := i.cache.Invalidate(ctx); err != nil {
		return err
	}
	i.logger.Debug("stats cache invalidated", "routing_key", event.RoutingKey, "event_id", event.EventID)
	return nil
}

package outbox

import (
	"context"
	"fmt"

	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/domain"
)

// SaveAggregateEvents annotates the aggregate's pending events with the
// command metadata carried by ctx, writes them to the outbox and clears
// them. It must run in the same unit of work as the aggregate save.
func SaveAggregateEvents(ctx context.Context, repo Repository, agg domain.Aggregate) error {
	pending := agg.PendingEvents()
	if len(pending) == 0 {
		return nil
	}
	sharedApplication.Annotate(pending, sharedApplication.MetadataFrom(ctx))

	msgs := make([]*Message, len(pending))
	for i, e := range pending {
		msg, err := NewMessage(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.RoutingKey(), err)
		}
		msgs[i] = msg
	}
	if err := repo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	agg.ClearPendingEvents()
	return nil
}

package application

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/shared/domain"
	"github.com/felixgeelhaar/mindful/pkg/observability"
	"github.com/google/uuid"
)

type annotatable interface {
	Annotate(meta domain.EventMetadata)
}

// MetadataFrom derives event metadata for one command. The correlation id
// is taken from ctx when a request or CLI invocation set one; the
// causation id is unique per call.
func MetadataFrom(ctx context.Context) domain.EventMetadata {
	correlation, err := uuid.Parse(observability.CorrelationIDFromContext(ctx))
	if err != nil {
		correlation = uuid.New()
	}
	return domain.EventMetadata{
		CorrelationID: correlation,
		CausationID:   uuid.New(),
	}
}

// Annotate applies meta to every event that accepts it.
func Annotate(events []domain.DomainEvent, meta domain.EventMetadata) {
	for _, e := range events {
		if a, ok := e.(annotatable); ok {
			a.Annotate(meta)
		}
	}
}

package domain

import (
	"context"
	"time"
)

// SessionSource supplies completed sessions to the engine.
type SessionSource interface {
	// CompletedFacts returns completed sessions started at or after since.
	// A nil since means the whole history.
	CompletedFacts(ctx context.Context, since *time.Time) ([]SessionFact, error)
}

// GoalSource supplies the goals progress is reported for.
type GoalSource interface {
	ActiveDefinitions(ctx context.Context) ([]GoalDefinition, error)
}

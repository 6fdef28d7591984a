package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for goal persistence.
type Repository interface {
	// Save persists a goal (create or update).
	Save(ctx context.Context, goal *Goal) error

	// FindByID returns nil, nil when the goal does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Goal, error)

	// List returns goals ordered by creation time, newest first.
	List(ctx context.Context, activeOnly bool) ([]*Goal, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

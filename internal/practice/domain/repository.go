package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionFilter narrows a session listing. A zero Limit means no limit.
type SessionFilter struct {
	From          *time.Time
	To            *time.Time
	TagID         *uuid.UUID
	CompletedOnly bool
	Limit         int
	Offset        int
}

// SessionRepository defines the interface for session persistence.
type SessionRepository interface {
	// Save persists a session (create or update).
	Save(ctx context.Context, session *Session) error

	// FindByID returns nil, nil when the session does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// List returns sessions matching the filter, most recent first.
	List(ctx context.Context, filter SessionFilter) ([]*Session, error)

	// Delete removes a session and its tag associations.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository defines the interface for tag persistence.
type TagRepository interface {
	Save(ctx context.Context, tag *Tag) error

	// FindByID returns nil, nil when the tag does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Tag, error)

	List(ctx context.Context) ([]*Tag, error)

	// Delete removes a tag and its session associations.
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceSessionTags swaps the session's tag set for tagIDs.
	ReplaceSessionTags(ctx context.Context, sessionID uuid.UUID, tagIDs []uuid.UUID) error

	// FindBySession lists the tags attached to a session.
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*Tag, error)
}

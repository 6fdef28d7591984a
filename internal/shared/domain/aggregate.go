package domain

import (
	"time"

	"github.com/google/uuid"
)

// Root is embedded by aggregates. It holds identity, timestamps and the
// events recorded since the aggregate was loaded or last flushed.
type Root struct {
	id        uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	pending   []DomainEvent
}

// NewRoot builds a root for a new or rehydrated aggregate. A zero
// updatedAt falls back to createdAt.
func NewRoot(id uuid.UUID, createdAt, updatedAt time.Time) Root {
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return Root{id: id, createdAt: createdAt, updatedAt: updatedAt}
}

func (r Root) ID() uuid.UUID        { return r.id }
func (r Root) CreatedAt() time.Time { return r.createdAt }
func (r Root) UpdatedAt() time.Time { return r.updatedAt }

// Touch bumps the modification timestamp.
func (r *Root) Touch() {
	r.updatedAt = time.Now().UTC()
}

// Record queues an event for the outbox.
func (r *Root) Record(e DomainEvent) {
	r.pending = append(r.pending, e)
}

// PendingEvents returns the queued events in recording order.
func (r *Root) PendingEvents() []DomainEvent {
	return r.pending
}

// ClearPendingEvents drops queued events once they are stored.
func (r *Root) ClearPendingEvents() {
	r.pending = nil
}

// Aggregate is satisfied by any type embedding *Root behaviour.
type Aggregate interface {
	ID() uuid.UUID
	PendingEvents() []DomainEvent
	ClearPendingEvents()
}

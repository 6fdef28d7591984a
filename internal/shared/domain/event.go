package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact emitted by an aggregate and relayed via the outbox.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
	Metadata() EventMetadata
}

// EventMetadata links an event to the request that caused it.
type EventMetadata struct {
	CorrelationID uuid.UUID
	CausationID   uuid.UUID
}

// Event implements DomainEvent and is embedded by concrete events.
type Event struct {
	id            uuid.UUID
	aggregateID   uuid.UUID
	aggregateType string
	routingKey    string
	at            time.Time
	meta          EventMetadata
}

// NewEvent stamps a fresh event id and the current UTC time.
func NewEvent(aggregateType string, aggregateID uuid.UUID, routingKey string) Event {
	return Event{
		id:            uuid.New(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		routingKey:    routingKey,
		at:            time.Now().UTC(),
	}
}

func (e Event) EventID() uuid.UUID      { return e.id }
func (e Event) AggregateID() uuid.UUID  { return e.aggregateID }
func (e Event) AggregateType() string   { return e.aggregateType }
func (e Event) RoutingKey() string      { return e.routingKey }
func (e Event) OccurredAt() time.Time   { return e.at }
func (e Event) Metadata() EventMetadata { return e.meta }

// Annotate attaches tracing metadata. Events are annotated just before
// they are written to the outbox.
func (e *Event) Annotate(meta EventMetadata) {
	e.meta = meta
}

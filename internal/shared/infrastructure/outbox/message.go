package outbox

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/mindful/internal/shared/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Message is one row of the outbox table.
type Message struct {
	ID               int64
	EventID          uuid.UUID
	AggregateType    string
	AggregateID      uuid.UUID
	EventType        string
	RoutingKey       string
	Payload          json.RawMessage
	Metadata         json.RawMessage
	CreatedAt        time.Time
	PublishedAt      *time.Time
	NextRetryAt      *time.Time
	RetryCount       int
	LastError        *string
	DeadLetteredAt   *time.Time
	DeadLetterReason *string
}

// NewMessage encodes a domain event. Payload holds the full
// eventbus.ConsumedEvent envelope so publishers can forward it unchanged;
// the event's own JSON sits under its "payload" key.
func NewMessage(e domain.DomainEvent) (*Message, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	meta := envelopeMetadata(e.Metadata())
	payload, err := json.Marshal(eventbus.ConsumedEvent{
		EventID:       e.EventID(),
		AggregateID:   e.AggregateID(),
		AggregateType: e.AggregateType(),
		RoutingKey:    e.RoutingKey(),
		OccurredAt:    e.OccurredAt(),
		Payload:       body,
		Metadata:      meta,
	})
	if err != nil {
		return nil, err
	}
	metadata, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       e.EventID(),
		AggregateType: e.AggregateType(),
		AggregateID:   e.AggregateID(),
		EventType:     e.RoutingKey(),
		RoutingKey:    e.RoutingKey(),
		Payload:       payload,
		Metadata:      metadata,
		CreatedAt:     e.OccurredAt(),
	}, nil
}

// IsPublished reports whether the message has been relayed.
func (m *Message) IsPublished() bool {
	return m.PublishedAt != nil
}

// CanRetry reports whether another delivery attempt is allowed.
func (m *Message) CanRetry(maxRetries int) bool {
	return m.RetryCount < maxRetries
}

// decodeMetadata reads the tracing ids back from a stored message.
func (m *Message) decodeMetadata() eventbus.EventMetadata {
	var meta eventbus.EventMetadata
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &meta)
	}
	return meta
}

func envelopeMetadata(meta domain.EventMetadata) eventbus.EventMetadata {
	idString := func(id uuid.UUID) string {
		if id == uuid.Nil {
			return ""
		}
		return id.String()
	}
	return eventbus.EventMetadata{
		CorrelationID: idString(meta.CorrelationID),
		CausationID:   idString(meta.CausationID),
	}
}

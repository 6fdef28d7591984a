package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/mindful/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Session"

// Routing keys published by the practice context.
const (
	RoutingKeySessionRecorded  = "practice.session.recorded"
	RoutingKeySessionUpdated   = "practice.session.updated"
	RoutingKeySessionCompleted = "practice.session.completed"
	RoutingKeySessionDeleted   = "practice.session.deleted"
)

// SessionRoutingKeys lists every session event, for consumers that react to
// any change in practice history.
var SessionRoutingKeys = []string{
	RoutingKeySessionRecorded,
	RoutingKeySessionUpdated,
	RoutingKeySessionCompleted,
	RoutingKeySessionDeleted,
}

// SessionRecorded is emitted when a session starts.
type SessionRecorded struct {
	sharedDomain.Event
	SessionID              uuid.UUID `json:"session_id"`
	StartedAt              time.Time `json:"started_at"`
	PlannedDurationSeconds int       `json:"planned_duration_seconds"`
}

// NewSessionRecorded creates a SessionRecorded event.
func NewSessionRecorded(s *Session) *SessionRecorded {
	return &SessionRecorded{
		Event:                  sharedDomain.NewEvent(aggregateType, s.ID(), RoutingKeySessionRecorded),
		SessionID:              s.ID(),
		StartedAt:              s.StartedAt(),
		PlannedDurationSeconds: s.PlannedDurationSeconds(),
	}
}

// SessionUpdated is emitted on every patch.
type SessionUpdated struct {
	sharedDomain.Event
	SessionID uuid.UUID `json:"session_id"`
	Completed bool      `json:"completed"`
}

// NewSessionUpdated creates a SessionUpdated event.
func NewSessionUpdated(s *Session) *SessionUpdated {
	return &SessionUpdated{
		Event:     sharedDomain.NewEvent(aggregateType, s.ID(), RoutingKeySessionUpdated),
		SessionID: s.ID(),
		Completed: s.IsCompleted(),
	}
}

// SessionCompleted is emitted once when a session turns completed.
type SessionCompleted struct {
	sharedDomain.Event
	SessionID              uuid.UUID `json:"session_id"`
	StartedAt              time.Time `json:"started_at"`
	PlannedDurationSeconds int       `json:"planned_duration_seconds"`
	ActualDurationSeconds  *int      `json:"actual_duration_seconds"`
	MoodAfter              *string   `json:"mood_after"`
}

// NewSessionCompleted creates a SessionCompleted event.
func NewSessionCompleted(s *Session) *SessionCompleted {
	return &SessionCompleted{
		Event:                  sharedDomain.NewEvent(aggregateType, s.ID(), RoutingKeySessionCompleted),
		SessionID:              s.ID(),
		StartedAt:              s.StartedAt(),
		PlannedDurationSeconds: s.PlannedDurationSeconds(),
		ActualDurationSeconds:  s.ActualDurationSeconds(),
		MoodAfter:              s.MoodAfter(),
	}
}

// SessionDeleted is emitted when a session is removed.
type SessionDeleted struct {
	sharedDomain.Event
	SessionID uuid.UUID `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
	Completed bool      `json:"completed"`
}

// NewSessionDeleted creates a SessionDeleted event.
func NewSessionDeleted(s *Session) *SessionDeleted {
	return &SessionDeleted{
		Event:     sharedDomain.NewEvent(aggregateType, s.ID(), RoutingKeySessionDeleted),
		SessionID: s.ID(),
		StartedAt: s.StartedAt(),
		Completed: s.IsCompleted(),
	}
}

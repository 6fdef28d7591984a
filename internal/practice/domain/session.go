// Package domain holds the practice aggregates: meditation sessions and the
// tags used to categorize them.
package domain

import (
	"errors"
	"time"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	sharedDomain "github.com/felixgeelhaar/mindful/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrInvalidPlannedDuration = errors.New("planned duration must be positive")
	ErrInvalidActualDuration  = errors.New("actual duration cannot be negative")
)

// Session is one sitting. It starts when recorded and is completed later,
// usually by the timer when it runs out.
type Session struct {
	sharedDomain.Root
	plannedDurationSeconds int
	visualType             *string
	bellSound              *string
	startedAt              time.Time
	endedAt                *time.Time
	actualDurationSeconds  *int
	completed              bool
	moodBefore             *string
	moodAfter              *string
	note                   *string
}

// NewSession records a session that started at startedAt.
func NewSession(plannedDurationSeconds int, visualType, bellSound *string, startedAt time.Time) (*Session, error) {
	if plannedDurationSeconds <= 0 {
		return nil, ErrInvalidPlannedDuration
	}

	startedAt = startedAt.UTC()
	s := &Session{
		Root:                   sharedDomain.NewRoot(uuid.New(), startedAt, startedAt),
		plannedDurationSeconds: plannedDurationSeconds,
		visualType:             visualType,
		bellSound:              bellSound,
		startedAt:              startedAt,
	}

	s.Record(NewSessionRecorded(s))
	return s, nil
}

// SessionSnapshot is the persisted state of a session.
type SessionSnapshot struct {
	ID                     uuid.UUID
	PlannedDurationSeconds int
	VisualType             *string
	BellSound              *string
	StartedAt              time.Time
	EndedAt                *time.Time
	ActualDurationSeconds  *int
	Completed              bool
	MoodBefore             *string
	MoodAfter              *string
	Note                   *string
	CreatedAt              time.Time
}

// RehydrateSession rebuilds a session from storage without emitting events.
func RehydrateSession(s SessionSnapshot) *Session {
	return &Session{
		Root:                   sharedDomain.NewRoot(s.ID, s.CreatedAt, s.CreatedAt),
		plannedDurationSeconds: s.PlannedDurationSeconds,
		visualType:             s.VisualType,
		bellSound:              s.BellSound,
		startedAt:              s.StartedAt,
		endedAt:                s.EndedAt,
		actualDurationSeconds:  s.ActualDurationSeconds,
		completed:              s.Completed,
		moodBefore:             s.MoodBefore,
		moodAfter:              s.MoodAfter,
		note:                   s.Note,
	}
}

// Snapshot returns the session's state for persistence and read models.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:                     s.ID(),
		PlannedDurationSeconds: s.plannedDurationSeconds,
		VisualType:             s.visualType,
		BellSound:              s.bellSound,
		StartedAt:              s.startedAt,
		EndedAt:                s.endedAt,
		ActualDurationSeconds:  s.actualDurationSeconds,
		Completed:              s.completed,
		MoodBefore:             s.moodBefore,
		MoodAfter:              s.moodAfter,
		Note:                   s.note,
		CreatedAt:              s.CreatedAt(),
	}
}

// Getters
func (s *Session) PlannedDurationSeconds() int { return s.plannedDurationSeconds }
func (s *Session) VisualType() *string         { return s.visualType }
func (s *Session) BellSound() *string          { return s.bellSound }
func (s *Session) StartedAt() time.Time        { return s.startedAt }
func (s *Session) EndedAt() *time.Time         { return s.endedAt }
func (s *Session) ActualDurationSeconds() *int { return s.actualDurationSeconds }
func (s *Session) IsCompleted() bool           { return s.completed }
func (s *Session) MoodBefore() *string         { return s.moodBefore }
func (s *Session) MoodAfter() *string          { return s.moodAfter }
func (s *Session) Note() *string               { return s.note }

// SessionPatch carries a partial update. Nil fields are left unchanged.
type SessionPatch struct {
	EndedAt               *time.Time
	ActualDurationSeconds *int
	Completed             *bool
	MoodBefore            *string
	MoodAfter             *string
	Note                  *string
}

// IsEmpty reports whether the patch sets nothing.
func (p SessionPatch) IsEmpty() bool {
	return p.EndedAt == nil && p.ActualDurationSeconds == nil && p.Completed == nil &&
		p.MoodBefore == nil && p.MoodAfter == nil && p.Note == nil
}

// Apply updates the fields set in the patch. Completing a session that was not
// yet completed emits SessionCompleted.
func (s *Session) Apply(patch SessionPatch) error {
	if patch.ActualDurationSeconds != nil && *patch.ActualDurationSeconds < 0 {
		return ErrInvalidActualDuration
	}
	if patch.IsEmpty() {
		return nil
	}

	wasCompleted := s.completed

	if patch.EndedAt != nil {
		ended := patch.EndedAt.UTC()
		s.endedAt = &ended
	}
	if patch.ActualDurationSeconds != nil {
		actual := *patch.ActualDurationSeconds
		s.actualDurationSeconds = &actual
	}
	if patch.Completed != nil {
		s.completed = *patch.Completed
	}
	if patch.MoodBefore != nil {
		s.moodBefore = patch.MoodBefore
	}
	if patch.MoodAfter != nil {
		s.moodAfter = patch.MoodAfter
	}
	if patch.Note != nil {
		s.note = patch.Note
	}

	s.Touch()
	s.Record(NewSessionUpdated(s))
	if !wasCompleted && s.completed {
		s.Record(NewSessionCompleted(s))
	}
	return nil
}

// MarkDeleted records the deletion so downstream projections can react.
func (s *Session) MarkDeleted() {
	s.Record(NewSessionDeleted(s))
}

// Fact projects the session into the analytics engine's input.
func (s *Session) Fact() analytics.SessionFact {
	return analytics.SessionFact{
		StartedAt:              s.startedAt,
		Completed:              s.completed,
		ActualDurationSeconds:  s.actualDurationSeconds,
		PlannedDurationSeconds: s.plannedDurationSeconds,
	}
}

// DurationMinutes is the actual duration in whole minutes, falling back to the
// planned duration for sessions that never recorded one.
func (s *Session) DurationMinutes() int {
	if s.actualDurationSeconds != nil {
		return *s.actualDurationSeconds / 60
	}
	return s.plannedDurationSeconds / 60
}

package queries

import (
	"time"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/google/uuid"
)

// SessionDTO is the read model for a session.
type SessionDTO struct {
	ID                     uuid.UUID  `json:"id"`
	PlannedDurationSeconds int        `json:"planned_duration_seconds"`
	VisualType             *string    `json:"visual_type"`
	BellSound              *string    `json:"bell_sound"`
	StartedAt              time.Time  `json:"started_at"`
	EndedAt                *time.Time `json:"ended_at"`
	ActualDurationSeconds  *int       `json:"actual_duration_seconds"`
	Completed              bool       `json:"completed"`
	MoodBefore             *string    `json:"mood_before"`
	MoodAfter              *string    `json:"mood_after"`
	Note                   *string    `json:"note"`
}

// ToSessionDTO maps a session aggregate to its read model.
func ToSessionDTO(s *domain.Session) SessionDTO {
	snap := s.Snapshot()
	return SessionDTO{
		ID:                     snap.ID,
		PlannedDurationSeconds: snap.PlannedDurationSeconds,
		VisualType:             snap.VisualType,
		BellSound:              snap.BellSound,
		StartedAt:              snap.StartedAt,
		EndedAt:                snap.EndedAt,
		ActualDurationSeconds:  snap.ActualDurationSeconds,
		Completed:              snap.Completed,
		MoodBefore:             snap.MoodBefore,
		MoodAfter:              snap.MoodAfter,
		Note:                   snap.Note,
	}
}

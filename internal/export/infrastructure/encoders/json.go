// Package encoders renders journals as JSON, CSV, iCalendar and Markdown.
package encoders

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/mindful/internal/export/domain"
)

type jsonSession struct {
	ID                     uuid.UUID  `json:"id"`
	StartedAt              time.Time  `json:"started_at"`
	EndedAt                *time.Time `json:"ended_at"`
	PlannedDurationSeconds int        `json:"planned_duration_seconds"`
	ActualDurationSeconds  *int       `json:"actual_duration_seconds"`
	Completed              bool       `json:"completed"`
	VisualType             *string    `json:"visual_type"`
	MoodBefore             *string    `json:"mood_before"`
	MoodAfter              *string    `json:"mood_after"`
	Note                   *string    `json:"note"`
}

type jsonDocument struct {
	ExportedAt time.Time     `json:"exported_at"`
	Stats      domain.Stats  `json:"stats"`
	Sessions   []jsonSession `json:"sessions"`
}

// JSON renders the journal as an indented document with totals.
type JSON struct{}

func (JSON) Format() domain.Format { return domain.FormatJSON }

func (JSON) Encode(w io.Writer, journal domain.Journal) error {
	doc := jsonDocument{
		ExportedAt: journal.ExportedAt.UTC(),
		Stats:      journal.Stats(),
		Sessions:   make([]jsonSession, 0, len(journal.Sessions)),
	}
	for _, s := range journal.Sessions {
		doc.Sessions = append(doc.Sessions, jsonSession{
			ID:                     s.ID(),
			StartedAt:              s.StartedAt().UTC(),
			EndedAt:                utcPtr(s.EndedAt()),
			PlannedDurationSeconds: s.PlannedDurationSeconds(),
			ActualDurationSeconds:  s.ActualDurationSeconds(),
			Completed:              s.IsCompleted(),
			VisualType:             s.VisualType(),
			MoodBefore:             s.MoodBefore(),
			MoodAfter:              s.MoodAfter(),
			Note:                   s.Note(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package encoders

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/felixgeelhaar/mindful/internal/export/domain"
)

var csvHeader = []string{
	"id", "started_at", "ended_at", "planned_duration_min", "actual_duration_min",
	"completed", "visual_type", "mood_before", "mood_after", "note",
}

// CSV renders one row per session. Durations are whole minutes; a missing
// or zero duration is left blank.
type CSV struct{}

func (CSV) Format() domain.Format { return domain.FormatCSV }

func (CSV) Encode(w io.Writer, journal domain.Journal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range journal.Sessions {
		endedAt := ""
		if e := s.EndedAt(); e != nil {
			endedAt = e.UTC().Format(time.RFC3339)
		}
		actual := ""
		if a := s.ActualDurationSeconds(); a != nil && *a > 0 {
			actual = strconv.Itoa(*a / 60)
		}
		completed := "No"
		if s.IsCompleted() {
			completed = "Yes"
		}

		row := []string{
			s.ID().String(),
			s.StartedAt().UTC().Format(time.RFC3339),
			endedAt,
			strconv.Itoa(s.PlannedDurationSeconds() / 60),
			actual,
			completed,
			deref(s.VisualType()),
			deref(s.MoodBefore()),
			deref(s.MoodAfter()),
			deref(s.Note()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

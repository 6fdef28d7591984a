package encoders

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/mindful/internal/export/domain"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

// Markdown renders a journal grouped by local day, newest day first.
type Markdown struct{}

func (Markdown) Format() domain.Format { return domain.FormatMarkdown }

func (Markdown) Encode(w io.Writer, journal domain.Journal) error {
	loc := journal.Location
	if loc == nil {
		loc = time.UTC
	}

	lines := []string{
		"# Mindfulness Journal",
		"",
		fmt.Sprintf("*Exported on %s*", journal.ExportedAt.In(loc).Format("2006-01-02")),
		"",
	}

	byDay := make(map[string][]*practice.Session)
	for _, s := range journal.Sessions {
		day := s.StartedAt().In(loc).Format("2006-01-02")
		byDay[day] = append(byDay[day], s)
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	for _, day := range days {
		lines = append(lines, "## "+day, "")
		for _, s := range byDay[day] {
			status := "○"
			if s.IsCompleted() {
				status = "✓"
			}
			lines = append(lines, fmt.Sprintf("### %s - %d min %s",
				s.StartedAt().In(loc).Format("15:04"), s.DurationMinutes(), status))
			if v := s.VisualType(); v != nil && *v != "" {
				lines = append(lines, fmt.Sprintf("*Visual: %s*", *v))
			}
			if m := s.MoodAfter(); m != nil && *m != "" {
				lines = append(lines, fmt.Sprintf("*Mood: %s*", *m))
			}
			if n := s.Note(); n != nil && *n != "" {
				lines = append(lines, "", *n)
			}
			lines = append(lines, "")
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// All returns every encoder.
func All() []domain.Encoder {
	return []domain.Encoder{JSON{}, CSV{}, ICal{}, Markdown{}}
}

// Package domain describes journal exports of practice history.
package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatICal     Format = "ical"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatCSV, FormatICal, FormatMarkdown}

// ParseFormat accepts a format name, case-insensitively. "ics" and "md" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatICal, FormatMarkdown:
		return f, nil
	case "ics":
		return FormatICal, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension is the file extension without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatICal:
		return "ics"
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// FileName is the attachment name offered for downloads.
func (f Format) FileName() string {
	return "mindfulness-export." + f.Extension()
}

// ContentType is the media type of the encoded journal.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatICal:
		return "text/calendar; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Journal is the data an export renders. Sessions are most recent first.
type Journal struct {
	ExportedAt time.Time
	// Location is the zone dates are rendered in where a format shows local time.
	Location *time.Location
	Sessions []*practice.Session
}

// Stats are the totals an export reports.
type Stats struct {
	TotalSessions int `json:"total_sessions"`
	TotalMinutes  int `json:"total_minutes"`
}

// Stats totals the journal. Minutes count the actual duration only.
func (j Journal) Stats() Stats {
	s := Stats{TotalSessions: len(j.Sessions)}
	for _, session := range j.Sessions {
		s.TotalMinutes += session.Fact().Minutes()
	}
	return s
}

// Encoder renders a journal in one format.
type Encoder interface {
	Format() Format
	Encode(w io.Writer, journal Journal) error
}

// CalendarMirror pushes sessions into an external calendar.
type CalendarMirror interface {
	Sync(ctx context.Context, sessions []*practice.Session) (*SyncResult, error)
}

// SyncResult counts what a mirror sync did.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Package application renders journal exports and drives the calendar mirror.
package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/mindful/internal/export/domain"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
)

// ErrMirrorNotConfigured is returned by SyncCalendar when no CalDAV server is set.
var ErrMirrorNotConfigured = errors.New("calendar mirror not configured")

// Query selects what to export. From and To bound started_at inclusively.
type Query struct {
	Format domain.Format
	From   *time.Time
	To     *time.Time
}

// Result is a rendered export.
type Result struct {
	Format      domain.Format
	FileName    string
	ContentType string
	Body        []byte
	Sessions    int
}

// Service renders completed sessions in the supported formats.
type Service struct {
	sessions practice.SessionRepository
	encoders map[domain.Format]domain.Encoder
	mirror   domain.CalendarMirror
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates an export service. A nil mirror disables SyncCalendar.
func NewService(
	sessions practice.SessionRepository,
	encoders []domain.Encoder,
	mirror domain.CalendarMirror,
	location *time.Location,
	logger *slog.Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	byFormat := make(map[domain.Format]domain.Encoder, len(encoders))
	for _, enc := range encoders {
		byFormat[enc.Format()] = enc
	}
	return &Service{
		sessions: sessions,
		encoders: byFormat,
		mirror:   mirror,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Export renders completed sessions in the query's range, most recent first.
func (s *Service) Export(ctx context.Context, q Query) (*Result, error) {
	enc, ok := s.encoders[q.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, q.Format)
	}

	sessions, err := s.completed(ctx, q.From, q.To)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	journal := domain.Journal{ExportedAt: s.now(), Location: s.location, Sessions: sessions}
	if err := enc.Encode(&buf, journal); err != nil {
		return nil, fmt.Errorf("failed to encode %s export: %w", q.Format, err)
	}

	s.logger.InfoContext(ctx, "journal exported", "format", q.Format, "sessions", len(sessions))
	return &Result{
		Format:      q.Format,
		FileName:    q.Format.FileName(),
		ContentType: q.Format.ContentType(),
		Body:        buf.Bytes(),
		Sessions:    len(sessions),
	}, nil
}

// MirrorEnabled reports whether a calendar mirror is configured.
func (s *Service) MirrorEnabled() bool {
	return s.mirror != nil
}

// SyncCalendar pushes completed sessions in the range to the calendar mirror.
func (s *Service) SyncCalendar(ctx context.Context, from, to *time.Time) (*domain.SyncResult, error) {
	if s.mirror == nil {
		return nil, ErrMirrorNotConfigured
	}
	sessions, err := s.completed(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.mirror.Sync(ctx, sessions)
}

func (s *Service) completed(ctx context.Context, from, to *time.Time) ([]*practice.Session, error) {
	sessions, err := s.sessions.List(ctx, practice.SessionFilter{From: from, To: to, CompletedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	return sessions, nil
}

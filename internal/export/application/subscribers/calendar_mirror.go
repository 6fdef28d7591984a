// Package subscribers reacts to practice events on behalf of the export context.
package subscribers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/mindful/internal/export/domain"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/eventbus"
)

// CalendarMirrorSubscriber copies each completed session into the calendar
// mirror.
type CalendarMirrorSubscriber struct {
	sessions practice.SessionRepository
	mirror   domain.CalendarMirror
	logger   *slog.Logger
}

// NewCalendarMirrorSubscriber creates a new CalendarMirrorSubscriber.
func NewCalendarMirrorSubscriber(sessions practice.SessionRepository, mirror domain.CalendarMirror, logger *slog.Logger) *CalendarMirrorSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarMirrorSubscriber{sessions: sessions, mirror: mirror, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (s *CalendarMirrorSubscriber) EventTypes() []string {
	return []string{practice.RoutingKeySessionCompleted}
}

// Handle mirrors the completed session. A session deleted before delivery is
// skipped. Mirror failures are logged, not retried.
func (s *CalendarMirrorSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	session, err := s.sessions.FindByID(ctx, event.AggregateID)
	if err != nil {
		return err
	}
	if session == nil || !session.IsCompleted() {
		s.logger.DebugContext(ctx, "session gone or not completed, skipping mirror",
			"session_id", event.AggregateID,
		)
		return nil
	}

	result, err := s.mirror.Sync(ctx, []*practice.Session{session})
	if err != nil {
		s.logger.WarnContext(ctx, "calendar mirror failed",
			"session_id", event.AggregateID,
			"error", err,
		)
		return nil
	}
	if result.Failed > 0 {
		s.logger.WarnContext(ctx, "calendar mirror rejected session", "session_id", event.AggregateID)
	}
	return nil
}

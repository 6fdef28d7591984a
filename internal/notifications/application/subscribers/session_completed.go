package subscribers

import (
	"context"
	"log/slog"
	"time"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/notifications/application"
	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/eventbus"
)

// SessionCompletedPayload is the part of practice.session.completed this
// subscriber reads.
type SessionCompletedPayload struct {
	ActualDurationSeconds *int    `json:"actual_duration_seconds"`
	MoodAfter             *string `json:"mood_after"`
}

// SessionCompletedSubscriber announces completed sessions on Discord and
// celebrates streak milestones.
type SessionCompletedSubscriber struct {
	settings *application.SettingsReader
	notifier domain.Notifier
	engine   analytics.Engine
	sessions analytics.SessionSource
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionCompletedSubscriber creates a new SessionCompletedSubscriber.
func NewSessionCompletedSubscriber(
	settings *application.SettingsReader,
	notifier domain.Notifier,
	engine analytics.Engine,
	sessions analytics.SessionSource,
	logger *slog.Logger,
) *SessionCompletedSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionCompletedSubscriber{
		settings: settings,
		notifier: notifier,
		engine:   engine,
		sessions: sessions,
		now:      time.Now,
		logger:   logger,
	}
}

// EventTypes returns the event types this subscriber handles.
func (s *SessionCompletedSubscriber) EventTypes() []string {
	return []string{practice.RoutingKeySessionCompleted}
}

// Handle processes a session completed event. Delivery problems are logged
// and never fail the event.
func (s *SessionCompletedSubscriber) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	settings, err := s.settings.Effective(ctx)
	if err != nil {
		return err
	}
	if !settings.Configured() {
		s.logger.DebugContext(ctx, "discord webhook not configured, skipping event",
			"routing_key", event.RoutingKey,
		)
		return nil
	}

	var payload SessionCompletedPayload
	if err := event.Decode(&payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to unmarshal session completed payload",
			"session_id", event.AggregateID,
			"error", err,
		)
		return nil
	}

	now := s.now()
	embed := domain.SessionCompleteEmbed(payload.ActualDurationSeconds, payload.MoodAfter, now)
	if err := s.notifier.Send(ctx, settings.WebhookURL, embed); err != nil {
		s.logger.WarnContext(ctx, "failed to send session notification",
			"session_id", event.AggregateID,
			"error", err,
		)
	}

	facts, err := s.sessions.CompletedFacts(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load sessions for streak", "error", err)
		return nil
	}
	streak := s.engine.ComputeStreaks(analytics.Timestamps(facts), now).Current

	milestone, ok := domain.StreakMilestoneEmbed(streak)
	if !ok {
		return nil
	}
	if err := s.notifier.Send(ctx, settings.WebhookURL, milestone); err != nil {
		s.logger.WarnContext(ctx, "failed to send milestone notification",
			"streak", streak,
			"error", err,
		)
		return nil
	}

	s.logger.InfoContext(ctx, "streak milestone announced", "streak", streak)
	return nil
}

package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/mindful/internal/notifications/application"
	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
)

// SetWebhookCommand stores the Discord webhook URL. An empty URL clears it.
type SetWebhookCommand struct {
	WebhookURL string
}

// SetWebhookHandler handles SetWebhookCommand.
type SetWebhookHandler struct {
	settings *application.SettingsReader
	repo     domain.SettingsRepository
	now      func() time.Time
}

// NewSetWebhookHandler creates a new SetWebhookHandler.
func NewSetWebhookHandler(settings *application.SettingsReader, repo domain.SettingsRepository) *SetWebhookHandler {
	return &SetWebhookHandler{settings: settings, repo: repo, now: time.Now}
}

// Handle executes the command.
func (h *SetWebhookHandler) Handle(ctx context.Context, cmd SetWebhookCommand) error {
	s, err := h.settings.Stored(ctx)
	if err != nil {
		return err
	}
	s.SetWebhookURL(cmd.WebhookURL, h.now())
	return h.repo.Save(ctx, s)
}

// UpdateReminderConfigCommand changes the daily reminder.
type UpdateReminderConfigCommand struct {
	// Enabled defaults to true when nil.
	Enabled *bool
	Hour    int
	Minute  int
}

// UpdateReminderConfigHandler handles UpdateReminderConfigCommand.
type UpdateReminderConfigHandler struct {
	settings *application.SettingsReader
	repo     domain.SettingsRepository
	now      func() time.Time
}

// NewUpdateReminderConfigHandler creates a new UpdateReminderConfigHandler.
func NewUpdateReminderConfigHandler(settings *application.SettingsReader, repo domain.SettingsRepository) *UpdateReminderConfigHandler {
	return &UpdateReminderConfigHandler{settings: settings, repo: repo, now: time.Now}
}

// Handle executes the command.
func (h *UpdateReminderConfigHandler) Handle(ctx context.Context, cmd UpdateReminderConfigCommand) error {
	if err := domain.ValidateReminderTime(cmd.Hour, cmd.Minute); err != nil {
		return err
	}

	s, err := h.settings.Stored(ctx)
	if err != nil {
		return err
	}

	enabled := true
	if cmd.Enabled != nil {
		enabled = *cmd.Enabled
	}
	if err := s.SetReminder(enabled, cmd.Hour, cmd.Minute, h.now()); err != nil {
		return err
	}
	return h.repo.Save(ctx, s)
}

// SendTestResult reports whether the test message was delivered.
type SendTestResult struct {
	Success bool `json:"success"`
}

// SendTestHandler posts the test embed to the configured webhook.
type SendTestHandler struct {
	settings *application.SettingsReader
	notifier domain.Notifier
	logger   *slog.Logger
}

// NewSendTestHandler creates a new SendTestHandler.
func NewSendTestHandler(settings *application.SettingsReader, notifier domain.Notifier, logger *slog.Logger) *SendTestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendTestHandler{settings: settings, notifier: notifier, logger: logger}
}

// Handle sends the test message. Delivery failures are reported as
// Success false, not as errors.
func (h *SendTestHandler) Handle(ctx context.Context) (*SendTestResult, error) {
	s, err := h.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	if !s.Configured() {
		return &SendTestResult{Success: false}, nil
	}

	if err := h.notifier.Send(ctx, s.WebhookURL, domain.TestEmbed()); err != nil {
		h.logger.WarnContext(ctx, "test notification failed", "error", err)
		return &SendTestResult{Success: false}, nil
	}
	return &SendTestResult{Success: true}, nil
}

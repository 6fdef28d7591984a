// Package domain holds notification settings and the Discord messages Mindful
// sends.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidReminderTime  = errors.New("reminder time must be hour 0-23 and minute 0-59")
	ErrWebhookNotConfigured = errors.New("discord webhook not configured")
)

// Default reminder time, local.
const (
	DefaultReminderHour   = 20
	DefaultReminderMinute = 0
)

// Settings is the single notification settings row.
type Settings struct {
	WebhookURL      string
	ReminderEnabled bool
	ReminderHour    int
	ReminderMinute  int
	UpdatedAt       time.Time
}

// DefaultSettings applies when neither the store nor the environment say
// otherwise.
func DefaultSettings() Settings {
	return Settings{
		ReminderHour:   DefaultReminderHour,
		ReminderMinute: DefaultReminderMinute,
	}
}

// Configured reports whether a webhook URL is set.
func (s Settings) Configured() bool {
	return s.WebhookURL != ""
}

// SetWebhookURL stores url. An empty url clears the webhook.
func (s *Settings) SetWebhookURL(url string, now time.Time) {
	s.WebhookURL = strings.TrimSpace(url)
	s.UpdatedAt = now
}

// SetReminder updates the reminder schedule.
func (s *Settings) SetReminder(enabled bool, hour, minute int, now time.Time) error {
	if err := ValidateReminderTime(hour, minute); err != nil {
		return err
	}
	s.ReminderEnabled = enabled
	s.ReminderHour = hour
	s.ReminderMinute = minute
	s.UpdatedAt = now
	return nil
}

// ValidateReminderTime checks a local wall-clock time.
func ValidateReminderTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidReminderTime
	}
	return nil
}

// SettingsRepository persists the settings row.
type SettingsRepository interface {
	// Get returns nil, nil when nothing is stored.
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings Settings) error
}

// Notifier delivers an embed to a webhook.
type Notifier interface {
	Send(ctx context.Context, webhookURL string, embed Embed) error
}

// Package application wires notification settings, commands and delivery.
package application

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
)

// SettingsReader resolves settings against environment defaults. A stored
// row wins, except that an empty stored webhook falls back to the default one.
type SettingsReader struct {
	repo     domain.SettingsRepository
	defaults domain.Settings
}

// NewSettingsReader creates a new SettingsReader.
func NewSettingsReader(repo domain.SettingsRepository, defaults domain.Settings) *SettingsReader {
	return &SettingsReader{repo: repo, defaults: defaults}
}

// Stored returns the row to modify: the stored one, or the defaults without
// their webhook so that saving never persists the fallback.
func (r *SettingsReader) Stored(ctx context.Context) (domain.Settings, error) {
	s, err := r.repo.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if s == nil {
		base := r.defaults
		base.WebhookURL = ""
		return base, nil
	}
	return *s, nil
}

// Effective returns the settings notifications are sent with.
func (r *SettingsReader) Effective(ctx context.Context) (domain.Settings, error) {
	s, err := r.Stored(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if s.WebhookURL == "" {
		s.WebhookURL = r.defaults.WebhookURL
	}
	return s, nil
}

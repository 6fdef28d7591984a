package queries

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/notifications/application"
)

// StatusDTO reports whether Discord delivery is possible.
type StatusDTO struct {
	Configured bool `json:"configured"`
}

// GetStatusHandler reports the webhook status.
type GetStatusHandler struct {
	settings *application.SettingsReader
}

// NewGetStatusHandler creates a new GetStatusHandler.
func NewGetStatusHandler(settings *application.SettingsReader) *GetStatusHandler {
	return &GetStatusHandler{settings: settings}
}

// Handle executes the query.
func (h *GetStatusHandler) Handle(ctx context.Context) (*StatusDTO, error) {
	s, err := h.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusDTO{Configured: s.Configured()}, nil
}

// ReminderConfigDTO is the daily reminder schedule.
type ReminderConfigDTO struct {
	Enabled bool `json:"enabled"`
	Hour    int  `json:"hour"`
	Minute  int  `json:"minute"`
}

// GetReminderConfigHandler returns the reminder schedule.
type GetReminderConfigHandler struct {
	settings *application.SettingsReader
}

// NewGetReminderConfigHandler creates a new GetReminderConfigHandler.
func NewGetReminderConfigHandler(settings *application.SettingsReader) *GetReminderConfigHandler {
	return &GetReminderConfigHandler{settings: settings}
}

// Handle executes the query.
func (h *GetReminderConfigHandler) Handle(ctx context.Context) (*ReminderConfigDTO, error) {
	s, err := h.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	return &ReminderConfigDTO{Enabled: s.ReminderEnabled, Hour: s.ReminderHour, Minute: s.ReminderMinute}, nil
}

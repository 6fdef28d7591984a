package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
)

// settingsRowID is the only row app_settings ever holds.
const settingsRowID = 1

// SettingsRepository implements domain.SettingsRepository on app_settings.
type SettingsRepository struct {
	conn database.Connection
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(conn database.Connection) *SettingsRepository {
	return &SettingsRepository{conn: conn}
}

// Get loads the settings row, nil when it was never written.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	query := database.Rebind(r.conn.Driver(), `
		SELECT discord_webhook_url, reminder_enabled, reminder_hour, reminder_minute, updated_at
		FROM app_settings WHERE id = ?`)

	var (
		webhook   sql.NullString
		updatedAt string
		s         domain.Settings
	)
	exec := database.ExecutorFromContext(ctx, r.conn)
	err := exec.QueryRow(ctx, query, settingsRowID).Scan(
		&webhook, &s.ReminderEnabled, &s.ReminderHour, &s.ReminderMinute, &updatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	s.WebhookURL = webhook.String
	if s.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save upserts the settings row.
func (r *SettingsRepository) Save(ctx context.Context, s domain.Settings) error {
	query := database.Rebind(r.conn.Driver(), `
		INSERT INTO app_settings (id, discord_webhook_url, reminder_enabled, reminder_hour, reminder_minute, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			discord_webhook_url = EXCLUDED.discord_webhook_url,
			reminder_enabled = EXCLUDED.reminder_enabled,
			reminder_hour = EXCLUDED.reminder_hour,
			reminder_minute = EXCLUDED.reminder_minute,
			updated_at = EXCLUDED.updated_at`)

	webhook := sql.NullString{String: s.WebhookURL, Valid: s.WebhookURL != ""}

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		settingsRowID, webhook, s.ReminderEnabled, s.ReminderHour, s.ReminderMinute,
		database.FormatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
)

func TestSettingsRepository_NilWhenEmpty(t *testing.T) {
	repo := NewSettingsRepository(dbtest.NewSQLite(t))

	s, err := repo.Get(context.Background())

	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSettingsRepository_SaveAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(dbtest.NewSQLite(t))
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	s := domain.DefaultSettings()
	s.SetWebhookURL("https://discord.com/api/webhooks/1/abc", now)
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s, *got)

	require.NoError(t, got.SetReminder(true, 6, 45, now.Add(time.Hour)))
	got.SetWebhookURL("", now.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, *got))

	updated, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, updated.Configured())
	assert.True(t, updated.ReminderEnabled)
	assert.Equal(t, 6, updated.ReminderHour)
	assert.Equal(t, 45, updated.ReminderMinute)
	assert.Equal(t, now.Add(time.Hour), updated.UpdatedAt)
}

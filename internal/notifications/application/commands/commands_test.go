package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/notifications/application"
	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
	"github.com/felixgeelhaar/mindful/internal/notifications/infrastructure/persistence"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, webhookURL string, embed domain.Embed) error {
	args := m.Called(ctx, webhookURL, embed)
	return args.Error(0)
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	repo   *persistence.SettingsRepository
	reader *application.SettingsReader
}

func newFixture(t *testing.T, defaults domain.Settings) fixture {
	repo := persistence.NewSettingsRepository(dbtest.NewSQLite(t))
	return fixture{repo: repo, reader: application.NewSettingsReader(repo, defaults)}
}

func TestSetWebhookHandler_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, domain.DefaultSettings())
	handler := NewSetWebhookHandler(f.reader, f.repo)
	handler.now = func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, handler.Handle(ctx, SetWebhookCommand{WebhookURL: "https://discord.test/hook"}))

	stored, err := f.repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "https://discord.test/hook", stored.WebhookURL)
	assert.Equal(t, 20, stored.ReminderHour)
}

func TestSetWebhookHandler_DoesNotPersistFallback(t *testing.T) {
	ctx := context.Background()
	defaults := domain.DefaultSettings()
	defaults.WebhookURL = "https://env.test/hook"
	f := newFixture(t, defaults)

	require.NoError(t, NewUpdateReminderConfigHandler(f.reader, f.repo).Handle(ctx, UpdateReminderConfigCommand{Hour: 7, Minute: 15}))

	stored, err := f.repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored.WebhookURL)

	effective, err := f.reader.Effective(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://env.test/hook", effective.WebhookURL)
}

func TestUpdateReminderConfigHandler_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, domain.DefaultSettings())
	handler := NewUpdateReminderConfigHandler(f.reader, f.repo)

	t.Run("enabled defaults to true", func(t *testing.T) {
		require.NoError(t, handler.Handle(ctx, UpdateReminderConfigCommand{Hour: 7, Minute: 30}))

		stored, err := f.repo.Get(ctx)
		require.NoError(t, err)
		assert.True(t, stored.ReminderEnabled)
		assert.Equal(t, 7, stored.ReminderHour)
		assert.Equal(t, 30, stored.ReminderMinute)
	})

	t.Run("explicit disable", func(t *testing.T) {
		require.NoError(t, handler.Handle(ctx, UpdateReminderConfigCommand{Enabled: ptr(false), Hour: 21, Minute: 0}))

		stored, err := f.repo.Get(ctx)
		require.NoError(t, err)
		assert.False(t, stored.ReminderEnabled)
		assert.Equal(t, 21, stored.ReminderHour)
	})

	t.Run("invalid time leaves settings unchanged", func(t *testing.T) {
		err := handler.Handle(ctx, UpdateReminderConfigCommand{Hour: 24, Minute: 0})
		assert.ErrorIs(t, err, domain.ErrInvalidReminderTime)

		stored, err := f.repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 21, stored.ReminderHour)
	})
}

func TestSendTestHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, domain.DefaultSettings())
		notifier := new(mockNotifier)

		result, err := NewSendTestHandler(f.reader, notifier, nil).Handle(ctx)

		require.NoError(t, err)
		assert.False(t, result.Success)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivered", func(t *testing.T) {
		f := newFixture(t, domain.DefaultSettings())
		require.NoError(t, NewSetWebhookHandler(f.reader, f.repo).Handle(ctx, SetWebhookCommand{WebhookURL: "https://discord.test/hook"}))
		notifier := new(mockNotifier)
		notifier.On("Send", mock.Anything, "https://discord.test/hook", domain.TestEmbed()).Return(nil)

		result, err := NewSendTestHandler(f.reader, notifier, nil).Handle(ctx)

		require.NoError(t, err)
		assert.True(t, result.Success)
		notifier.AssertExpectations(t)
	})

	t.Run("delivery failure reports false", func(t *testing.T) {
		defaults := domain.DefaultSettings()
		defaults.WebhookURL = "https://env.test/hook"
		f := newFixture(t, defaults)
		notifier := new(mockNotifier)
		notifier.On("Send", mock.Anything, "https://env.test/hook", mock.Anything).Return(errors.New("status 404"))

		result, err := NewSendTestHandler(f.reader, notifier, nil).Handle(ctx)

		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}

// Package apptest builds fully wired containers over throwaway SQLite
// databases for adapter tests.
package apptest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/app"
	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/mindful/pkg/config"
)

// Config returns a local configuration with no external services.
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:           "test",
		LogLevel:         "error",
		Timezone:         "UTC",
		HTTPAddr:         "127.0.0.1:0",
		DatabaseDriver:   "sqlite",
		LocalMode:        true,
		StatsCacheTTL:    time.Minute,
		OutboxBatchSize:  100,
		OutboxMaxRetries: 3,
		WebhookTimeout:   time.Second,
		ReminderHour:     20,
		SchedulerTick:    time.Second,
		SoundsDir:        t.TempDir(),
	}
}

// NewContainer builds a container over a fresh migrated database. Discord is
// replaced by a RecordingNotifier unless opts say otherwise.
func NewContainer(t *testing.T, cfg *config.Config, opts ...app.Option) (*app.Container, *RecordingNotifier) {
	t.Helper()
	if cfg == nil {
		cfg = Config(t)
	}
	notifier := &RecordingNotifier{}
	opts = append([]app.Option{app.WithNotifier(notifier)}, opts...)

	c, err := app.NewContainerWithConnection(context.Background(), cfg, dbtest.NewSQLite(t), nil, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, notifier
}

// Flush drains the outbox through the container's publisher.
func Flush(t *testing.T, c *app.Container) {
	t.Helper()
	require.NoError(t, c.OutboxProcessor.ProcessOnce(context.Background()))
}

// RecordingNotifier captures embeds instead of posting them.
type RecordingNotifier struct {
	mu     sync.Mutex
	Err    error
	embeds []domain.Embed
	urls   []string
}

// Send records the embed.
func (n *RecordingNotifier) Send(_ context.Context, webhookURL string, embed domain.Embed) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.embeds = append(n.embeds, embed)
	n.urls = append(n.urls, webhookURL)
	return nil
}

// Embeds returns what was sent so far.
func (n *RecordingNotifier) Embeds() []domain.Embed {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Embed(nil), n.embeds...)
}

// URLs returns the webhook each embed went to.
func (n *RecordingNotifier) URLs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urls...)
}

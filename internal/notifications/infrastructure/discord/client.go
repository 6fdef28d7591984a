// Package discord posts notification embeds to Discord webhooks.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

// ErrUnexpectedStatus is returned when Discord answers with anything but 200 or 204.
var ErrUnexpectedStatus = errors.New("unexpected webhook status")

// Config configures the client.
type Config struct {
	Timeout time.Duration
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
	}
}

// Client implements domain.Notifier over HTTP.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	metrics    observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a new webhook client.
func NewClient(cfg Config, metrics observability.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        "discord-webhook",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[struct{}](settings),
		metrics:    metrics,
		logger:     logger,
	}
}

// Send posts embed to webhookURL.
func (c *Client) Send(ctx context.Context, webhookURL string, embed domain.Embed) error {
	if webhookURL == "" {
		return domain.ErrWebhookNotConfigured
	}

	body, err := json.Marshal(domain.NewWebhookPayload(embed))
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	_, err = c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.post(ctx, webhookURL, body)
	})
	if err != nil {
		c.metrics.Counter(observability.MetricNotificationsFailed, 1)
		return fmt.Errorf("discord webhook: %w", err)
	}

	c.metrics.Counter(observability.MetricNotificationsSent, 1)
	c.logger.DebugContext(ctx, "discord notification sent", "title", embed.Title)
	return nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/notifications/domain"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

func TestClient_Send(t *testing.T) {
	var got domain.WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	metrics := observability.NewInMemoryMetrics()
	client := NewClient(DefaultConfig(), metrics, nil)

	require.NoError(t, client.Send(context.Background(), server.URL, domain.TestEmbed()))

	assert.Equal(t, "", got.Content)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "🧘 Mindfulness App Connected", got.Embeds[0].Title)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricNotificationsSent))
}

func TestClient_Send_NotConfigured(t *testing.T) {
	client := NewClient(DefaultConfig(), nil, nil)

	err := client.Send(context.Background(), "", domain.TestEmbed())

	assert.ErrorIs(t, err, domain.ErrWebhookNotConfigured)
}

func TestClient_Send_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	metrics := observability.NewInMemoryMetrics()
	client := NewClient(DefaultConfig(), metrics, nil)

	err := client.Send(context.Background(), server.URL, domain.ReminderEmbed())

	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricNotificationsFailed))
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{Timeout: time.Second, FailureThreshold: 2, OpenTimeout: time.Hour}, nil, nil)
	ctx := context.Background()

	assert.Error(t, client.Send(ctx, server.URL, domain.ReminderEmbed()))
	assert.Error(t, client.Send(ctx, server.URL, domain.ReminderEmbed()))

	err := client.Send(ctx, server.URL, domain.ReminderEmbed())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load())
}

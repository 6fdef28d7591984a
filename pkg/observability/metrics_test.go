package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	m.Counter("requests", 1, T("method", "GET"))
	m.Counter("requests", 2, T("method", "GET"))
	m.Counter("requests", 1, T("method", "POST"))
	m.Timing("latency", 5*time.Millisecond)

	assert.Equal(t, int64(3), m.GetCounter("requests", T("method", "GET")))
	assert.Equal(t, int64(1), m.GetCounter("requests", T("method", "POST")))
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, m.GetTimings("latency"))
	assert.Equal(t, map[string]int64{
		"requests:method=GET":  3,
		"requests:method=POST": 1,
	}, m.Snapshot())
}

func TestTimeOperationResult(t *testing.T) {
	m := NewInMemoryMetrics()
	tag := T(OperationKey, "stats.streak")

	got, err := TimeOperationResult(context.Background(), nil, m, "stats.streak", func() (int, error) {
		return 4, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	boom := errors.New("boom")
	_, err = TimeOperationResult(context.Background(), nil, m, "stats.streak", func() (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, int64(2), m.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, tag))
	assert.Len(t, m.GetTimings(MetricOperationDuration, tag), 2)
}

func TestRequestMiddleware(t *testing.T) {
	m := NewInMemoryMetrics()
	var seen string
	handler := RequestMiddleware(nil, m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("honors incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/stats/summary", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "req-42", seen)
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	})

	t.Run("generates a request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	assert.Equal(t, int64(2), m.GetCounter(MetricHTTPRequests, T("method", http.MethodGet)))
}

func TestHealthRegistry(t *testing.T) {
	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("refused") }

	t.Run("healthy with no checks", func(t *testing.T) {
		assert.Equal(t, HealthStatusHealthy, NewHealthRegistry().Check(context.Background()).Status)
	})

	t.Run("optional failure degrades", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingChecker("database", ok))
		r.Register("redis", OptionalPingChecker("redis", fail))

		health := r.Check(context.Background())

		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Equal(t, HealthStatusHealthy, health.Checks["database"].Status)
		assert.Contains(t, health.Checks["redis"].Message, "refused")
		assert.Equal(t, []string{"database", "redis"}, r.Names())
	})

	t.Run("required failure returns 503", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingChecker("database", fail))
		r.Register("rabbitmq", OptionalPingChecker("rabbitmq", fail))

		rec := httptest.NewRecorder()
		r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
	})

	t.Run("re-registering replaces the check", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("redis", OptionalPingChecker("redis", fail))
		r.Register("redis", OptionalPingChecker("redis", ok))

		assert.Equal(t, []string{"redis"}, r.Names())
		assert.Equal(t, HealthStatusHealthy, r.Check(context.Background()).Status)
	})

	t.Run("slow checks are cut off", func(t *testing.T) {
		r := NewHealthRegistry()
		r.timeout = 10 * time.Millisecond
		r.Register("database", PingChecker("database", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}))

		health := r.Check(context.Background())

		assert.Equal(t, HealthStatusUnhealthy, health.Status)
		assert.Contains(t, health.Checks["database"].Message, "deadline exceeded")
	})
}

package observability

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestMiddleware assigns a request id, honoring an incoming X-Request-ID,
// and logs each request once it completes.
func RequestMiddleware(logger *slog.Logger, metrics Metrics) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := WithRequestID(r.Context(), r.Header.Get(RequestIDHeader))
			w.Header().Set(RequestIDHeader, RequestIDFromContext(ctx))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			duration := time.Since(start)
			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				StatusKey, rec.status,
				DurationKey, duration.Milliseconds(),
			)

			tag := T("method", r.Method)
			metrics.Counter(MetricHTTPRequests, 1, tag)
			metrics.Timing(MetricHTTPRequestDuration, duration, tag)
		})
	}
}

package observability

import (
	"context"
	"log/slog"
	"time"
)

// TimeOperationResult runs fn, then logs and records its duration under
// operation. Failures are logged at error level and counted separately.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	observe(ctx, logger, metrics, operation, time.Since(start), err)
	return result, err
}

func observe(ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, d time.Duration, err error) {
	if logger != nil {
		attrs := []any{OperationKey, operation, DurationKey, d.Milliseconds()}
		if err != nil {
			logger.ErrorContext(ctx, "operation failed", append(attrs, "error", err)...)
		} else {
			logger.DebugContext(ctx, "operation completed", attrs...)
		}
	}
	if metrics == nil {
		return
	}
	tag := T(OperationKey, operation)
	metrics.Counter(MetricOperationTotal, 1, tag)
	metrics.Timing(MetricOperationDuration, d, tag)
	if err != nil {
		metrics.Counter(MetricOperationErrors, 1, tag)
	}
}

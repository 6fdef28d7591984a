// Package queries contains the read side of analytics: every query loads
// session facts, runs them through the engine and optionally caches the result.
package queries

import (
	"context"
	"log/slog"
	"time"
)

// Cache stores computed statistics between session changes.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every cached statistic.
	Invalidate(ctx context.Context) error
}

// Clock returns the reference instant for relative windows.
type Clock func() time.Time

// Cache keys.
const (
	KeySummary       = "stats:summary"
	KeyStreak        = "stats:streak"
	KeyHeatmapPrefix = "stats:heatmap:"
	KeyWeekly        = "stats:weekly"
	KeyGoalProgress  = "stats:goals"
)

// cached returns the cached value under key, or computes and stores it.
// Cache failures are logged and never fail the query.
func cached[T any](ctx context.Context, cache Cache, logger *slog.Logger, key string, compute func() (T, error)) (T, error) {
	if cache == nil {
		return compute()
	}

	var hit T
	found, err := cache.Get(ctx, key, &hit)
	if err != nil {
		logger.Warn("stats cache read failed", "key", key, "error", err)
	} else if found {
		return hit, nil
	}

	value, err := compute()
	if err != nil {
		return value, err
	}
	if err := cache.Set(ctx, key, value); err != nil {
		logger.Warn("stats cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Package application contains the application layer for the analytics bounded context.
package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/mindful/internal/analytics/application/queries"
	"github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

// Service provides a facade over all analytics handlers.
type Service struct {
	getSummaryHandler       *queries.GetSummaryHandler
	getStreakHandler        *queries.GetStreakHandler
	getHeatmapHandler       *queries.GetHeatmapHandler
	getWeeklySummaryHandler *queries.GetWeeklySummaryHandler
	getGoalProgressHandler  *queries.GetGoalProgressHandler

	engine  domain.Engine
	cache   queries.Cache
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewService creates a new analytics service. A nil metrics collector
// discards timings.
func NewService(deps queries.Deps, metrics observability.Metrics) *Service {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		getSummaryHandler:       queries.NewGetSummaryHandler(deps),
		getStreakHandler:        queries.NewGetStreakHandler(deps),
		getHeatmapHandler:       queries.NewGetHeatmapHandler(deps),
		getWeeklySummaryHandler: queries.NewGetWeeklySummaryHandler(deps),
		getGoalProgressHandler:  queries.NewGetGoalProgressHandler(deps),
		engine:                  deps.Engine,
		cache:                   deps.Cache,
		logger:                  logger,
		metrics:                 metrics,
	}
}

// Engine returns the engine the service computes with.
func (s *Service) Engine() domain.Engine {
	return s.engine
}

// Summary returns totals and streaks over all completed sessions.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "stats.summary", func() (domain.Summary, error) {
		return s.getSummaryHandler.Handle(ctx)
	})
}

// Streak returns the current and longest streak.
func (s *Service) Streak(ctx context.Context) (domain.StreakResult, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "stats.streak", func() (domain.StreakResult, error) {
		return s.getStreakHandler.Handle(ctx)
	})
}

// Heatmap returns per-day buckets for the trailing window.
func (s *Service) Heatmap(ctx context.Context, query queries.GetHeatmapQuery) ([]domain.HeatmapBucket, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "stats.heatmap", func() ([]domain.HeatmapBucket, error) {
		return s.getHeatmapHandler.Handle(ctx, query)
	})
}

// WeeklySummary returns the trailing seven-day summary.
func (s *Service) WeeklySummary(ctx context.Context) (domain.WeeklySummary, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "stats.weekly", func() (domain.WeeklySummary, error) {
		return s.getWeeklySummaryHandler.Handle(ctx)
	})
}

// GoalProgress returns progress for every active goal.
func (s *Service) GoalProgress(ctx context.Context) ([]domain.GoalProgress, error) {
	return observability.TimeOperationResult(ctx, s.logger, s.metrics, "goals.progress", func() ([]domain.GoalProgress, error) {
		return s.getGoalProgressHandler.Handle(ctx)
	})
}

// Invalidate drops cached statistics.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

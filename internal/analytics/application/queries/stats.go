package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

// Deps are the collaborators shared by the analytics query handlers.
type Deps struct {
	Engine   domain.Engine
	Sessions domain.SessionSource
	Goals    domain.GoalSource
	// Cache is optional.
	Cache  Cache
	Clock  Clock
	Logger *slog.Logger
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d Deps) facts(ctx context.Context, since *time.Time) ([]domain.SessionFact, error) {
	facts, err := d.Sessions.CompletedFacts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed sessions: %w", err)
	}
	return facts, nil
}

// GetSummaryHandler returns the all-time summary.
type GetSummaryHandler struct {
	deps Deps
}

// NewGetSummaryHandler creates a new GetSummaryHandler.
func NewGetSummaryHandler(deps Deps) *GetSummaryHandler {
	return &GetSummaryHandler{deps: deps}
}

// Handle computes the summary over every completed session.
func (h *GetSummaryHandler) Handle(ctx context.Context) (domain.Summary, error) {
	return cached(ctx, h.deps.Cache, h.deps.logger(), KeySummary, func() (domain.Summary, error) {
		facts, err := h.deps.facts(ctx, nil)
		if err != nil {
			return domain.Summary{}, err
		}
		return h.deps.Engine.Summarize(facts, h.deps.now()), nil
	})
}

// GetStreakHandler returns the current and longest streak.
type GetStreakHandler struct {
	deps Deps
}

// NewGetStreakHandler creates a new GetStreakHandler.
func NewGetStreakHandler(deps Deps) *GetStreakHandler {
	return &GetStreakHandler{deps: deps}
}

// Handle computes streaks over every completed session.
func (h *GetStreakHandler) Handle(ctx context.Context) (domain.StreakResult, error) {
	return cached(ctx, h.deps.Cache, h.deps.logger(), KeyStreak, func() (domain.StreakResult, error) {
		facts, err := h.deps.facts(ctx, nil)
		if err != nil {
			return domain.StreakResult{}, err
		}
		return h.deps.Engine.ComputeStreaks(domain.Timestamps(facts), h.deps.now()), nil
	})
}

// GetHeatmapQuery selects the heatmap window.
type GetHeatmapQuery struct {
	// Days defaults to domain.DefaultHeatmapDays when zero.
	Days int
}

// GetHeatmapHandler returns per-day practice buckets.
type GetHeatmapHandler struct {
	deps Deps
}

// NewGetHeatmapHandler creates a new GetHeatmapHandler.
func NewGetHeatmapHandler(deps Deps) *GetHeatmapHandler {
	return &GetHeatmapHandler{deps: deps}
}

// Handle computes the heatmap over the trailing window.
func (h *GetHeatmapHandler) Handle(ctx context.Context, query GetHeatmapQuery) ([]domain.HeatmapBucket, error) {
	days := query.Days
	if days == 0 {
		days = domain.DefaultHeatmapDays
	}
	if days < 0 {
		return []domain.HeatmapBucket{}, nil
	}

	key := KeyHeatmapPrefix + strconv.Itoa(days)
	return cached(ctx, h.deps.Cache, h.deps.logger(), key, func() ([]domain.HeatmapBucket, error) {
		now := h.deps.now()
		since := now.Add(-time.Duration(days) * 24 * time.Hour)
		facts, err := h.deps.facts(ctx, &since)
		if err != nil {
			return nil, err
		}
		return h.deps.Engine.ComputeHeatmap(facts, days, now), nil
	})
}

// GetWeeklySummaryHandler returns the trailing seven-day summary.
type GetWeeklySummaryHandler struct {
	deps Deps
}

// NewGetWeeklySummaryHandler creates a new GetWeeklySummaryHandler.
func NewGetWeeklySummaryHandler(deps Deps) *GetWeeklySummaryHandler {
	return &GetWeeklySummaryHandler{deps: deps}
}

// Handle computes the weekly summary. The streak needs the full history, so
// every completed session is loaded.
func (h *GetWeeklySummaryHandler) Handle(ctx context.Context) (domain.WeeklySummary, error) {
	return cached(ctx, h.deps.Cache, h.deps.logger(), KeyWeekly, func() (domain.WeeklySummary, error) {
		facts, err := h.deps.facts(ctx, nil)
		if err != nil {
			return domain.WeeklySummary{}, err
		}
		return h.deps.Engine.SummarizeWeek(facts, h.deps.now()), nil
	})
}

// GetGoalProgressHandler reports progress for every active goal.
type GetGoalProgressHandler struct {
	deps Deps
}

// NewGetGoalProgressHandler creates a new GetGoalProgressHandler.
func NewGetGoalProgressHandler(deps Deps) *GetGoalProgressHandler {
	return &GetGoalProgressHandler{deps: deps}
}

// Handle computes progress for each active goal in its current window.
func (h *GetGoalProgressHandler) Handle(ctx context.Context) ([]domain.GoalProgress, error) {
	return cached(ctx, h.deps.Cache, h.deps.logger(), KeyGoalProgress, func() ([]domain.GoalProgress, error) {
		goals, err := h.deps.Goals.ActiveDefinitions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load goals: %w", err)
		}

		progress := make([]domain.GoalProgress, 0, len(goals))
		if len(goals) == 0 {
			return progress, nil
		}

		// Weekly windows are the widest; load only what they can reach.
		now := h.deps.now()
		week, _ := h.deps.Engine.ResolveWindow(domain.GoalTypeWeeklyMinutes, now)
		facts, err := h.deps.facts(ctx, &week.Start)
		if err != nil {
			return nil, err
		}

		for _, g := range goals {
			progress = append(progress, h.deps.Engine.ComputeGoalProgress(g, facts, now))
		}
		return progress, nil
	})
}

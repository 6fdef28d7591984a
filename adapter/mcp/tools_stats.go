package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/mindful/internal/analytics/application/queries"
	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

type emptyInput struct{}

type heatmapInput struct {
	Days int `json:"days,omitempty"`
}

func registerStatsTools(srv *mcp.Server, t *tools) {
	srv.Tool("stats.summary").
		Description("All-time totals with the current and longest streak").
		Handler(t.statsSummary)

	srv.Tool("stats.streak").
		Description("Current and longest run of consecutive practice days").
		Handler(t.statsStreak)

	srv.Tool("stats.heatmap").
		Description("Minutes and sessions per day over a trailing window; days without practice are omitted").
		Handler(t.statsHeatmap)

	srv.Tool("stats.weekly").
		Description("Sessions, minutes and streak for the last seven days").
		Handler(t.statsWeekly)
}

func (t *tools) statsSummary(ctx context.Context, _ emptyInput) (analytics.Summary, error) {
	return t.c.Stats.Summary(ctx)
}

func (t *tools) statsStreak(ctx context.Context, _ emptyInput) (analytics.StreakResult, error) {
	return t.c.Stats.Streak(ctx)
}

func (t *tools) statsHeatmap(ctx context.Context, input heatmapInput) ([]analytics.HeatmapBucket, error) {
	return t.c.Stats.Heatmap(ctx, queries.GetHeatmapQuery{Days: input.Days})
}

func (t *tools) statsWeekly(ctx context.Context, _ emptyInput) (analytics.WeeklySummary, error) {
	return t.c.Stats.WeeklySummary(ctx)
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/mindful/internal/analytics/application/queries"
	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

// RegisterResources registers read-only practice resources.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.Container == nil {
		return fmt.Errorf("container is required")
	}
	t := &tools{c: deps.Container}

	jsonResource(srv, "mindful://stats/summary", "Practice Summary",
		"All-time sessions, minutes and streaks",
		func(ctx context.Context) (any, error) { return t.c.Stats.Summary(ctx) })

	jsonResource(srv, "mindful://stats/weekly", "Weekly Summary",
		"Sessions and minutes over the last seven days",
		func(ctx context.Context) (any, error) { return t.c.Stats.WeeklySummary(ctx) })

	jsonResource(srv, "mindful://stats/heatmap", "Practice Heatmap",
		"Minutes per day over the last year",
		func(ctx context.Context) (any, error) {
			return t.c.Stats.Heatmap(ctx, queries.GetHeatmapQuery{Days: analytics.DefaultHeatmapDays})
		})

	jsonResource(srv, "mindful://goals/progress", "Goal Progress",
		"Progress toward every active goal",
		func(ctx context.Context) (any, error) { return t.c.Stats.GoalProgress(ctx) })

	return nil
}

func jsonResource(srv *mcp.Server, uri, name, description string, load func(ctx context.Context) (any, error)) {
	srv.Resource(uri).
		Name(name).
		Description(description).
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			v, err := load(ctx)
			if err != nil {
				return nil, err
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return &mcp.ResourceContent{
				URI:      uri,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}

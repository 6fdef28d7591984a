package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mindful/internal/app"
)

// ToolDependencies provides the container MCP tools run against.
type ToolDependencies struct {
	Container *app.Container
}

// RegisterTools registers the practice and statistics tools.
func RegisterTools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.Container == nil {
		return errors.New("container is required")
	}

	t := &tools{c: deps.Container}
	registerStatsTools(srv, t)
	registerSessionTools(srv, t)
	registerGoalTools(srv, t)
	return nil
}

// tools holds the handlers behind each registered tool.
type tools struct {
	c *app.Container
}

// flush delivers pending events so caches and notifications reflect a write
// before the tool returns.
func (t *tools) flush(ctx context.Context) {
	if err := t.c.OutboxProcessor.ProcessOnce(ctx); err != nil {
		t.c.Logger.WarnContext(ctx, "failed to deliver pending events", "error", err)
	}
}

// Command mcp serves the practice tools to Model Context Protocol clients.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/mindful/internal/app"
	"github.com/felixgeelhaar/mindful/internal/mcp"
	"github.com/felixgeelhaar/mindful/pkg/config"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.LoggerFromConfig(cfg, version)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer container.Close()

	// In embedded mode relay the outbox so subscribers see events raised by
	// tool calls. The scheduler stays with serve; set
	// OUTBOX_PROCESSOR_ENABLED=false when serve runs next to this server.
	if cfg.EmbeddedJobs() && cfg.OutboxProcessorEnabled {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			return fmt.Errorf("start outbox processor: %w", err)
		}
	}

	srv, err := mcp.New(cfg, container, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

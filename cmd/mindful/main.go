// Command mindful is the practice tracker CLI.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/mindful/adapter/cli"
	"github.com/felixgeelhaar/mindful/internal/app"
	"github.com/felixgeelhaar/mindful/pkg/config"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Quiet until a config says otherwise.
	cli.SetLogger(observability.NewLogger(observability.LogConfig{Level: "warn", Format: "text"}))

	// The container opens lazily so --config applies and commands like
	// "version" never touch the database.
	cli.SetLoader(func(ctx context.Context, configFile string) (*cli.App, error) {
		cfg, err := config.LoadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if cli.Verbose() {
			cfg.LogLevel = "debug"
		}
		logger := observability.LoggerFromConfig(cfg, cli.Version)
		cli.SetLogger(logger)

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("init container: %w", err)
		}
		return cli.NewApp(container), nil
	})

	cli.Execute(ctx)
}

// Command worker relays the outbox, consumes domain events and runs the
// reminder scheduler.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/mindful/internal/app"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/mindful/pkg/config"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.LoggerFromConfig(cfg, version).With("component", "worker")

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer container.Close()

	// In embedded mode serve owns the outbox and the scheduler; the worker
	// is only useful as the RabbitMQ consumer.
	ownsJobs := !cfg.EmbeddedJobs()
	if !ownsJobs && !container.RemoteEvents {
		return errors.New("nothing to run: BACKGROUND_JOBS=embedded leaves the outbox and scheduler to serve and no RabbitMQ consumer is configured")
	}

	g, ctx := errgroup.WithContext(ctx)
	if ownsJobs {
		if err := container.StartBackgroundJobs(ctx); err != nil {
			return err
		}
	}
	processor := container.OutboxProcessor
	logger.Info("worker started",
		"background_jobs", cfg.BackgroundJobs,
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
		"remote_events", container.RemoteEvents,
	)

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	// With RabbitMQ the processor publishes remotely and events come back
	// through the queue. Otherwise they were already dispatched in-process.
	if container.RemoteEvents {
		registry := eventbus.NewConsumerRegistry(logger)
		for _, c := range container.Consumers() {
			registry.Register(c)
		}
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:    cfg.RabbitMQURL,
			Logger: logger,
		}, registry)
		if err != nil {
			return fmt.Errorf("create event consumer: %w", err)
		}
		defer consumer.Close()

		g.Go(func() error {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("event consumer: %w", err)
			}
			return nil
		})
	}

	if cfg.WorkerHealthAddr != "" {
		g.Go(func() error {
			return serveHealth(ctx, cfg.WorkerHealthAddr, container, logger)
		})
	}

	if cfg.OutboxStatsInterval > 0 {
		g.Go(func() error {
			reportStats(ctx, processor, cfg.OutboxStatsInterval, logger)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("worker shutting down")
	return err
}

// serveHealth exposes processor stats on /healthz and dependency checks on
// /readyz until ctx ends.
func serveHealth(ctx context.Context, addr string, container *app.Container, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		stats := container.OutboxProcessor.Stats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"last_processed_at": stats.LastProcessedAt,
			"last_error_at":     stats.LastErrorAt,
			"last_error":        stats.LastError,
		})
	})
	mux.Handle("GET /readyz", container.Health.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown", "error", err)
		}
	}()

	logger.Info("health server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func reportStats(ctx context.Context, processor *outbox.Processor, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := processor.Stats()
			logger.Info("outbox stats",
				"running", s.IsRunning,
				"published", s.PublishedCount,
				"failed", s.FailedCount,
				"dead", s.DeadCount,
				"lag_seconds", s.LagSeconds,
				"oldest_message_at", s.OldestMessageAt,
				"last_error", s.LastError,
			)
		}
	}
}

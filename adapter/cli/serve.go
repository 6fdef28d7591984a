package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/mindful/adapter/api"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. With BACKGROUND_JOBS=embedded (the default without
RabbitMQ) serve also runs the outbox processor and the reminder scheduler;
do not start cmd/worker against the same database in that mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		c := app.Container
		ctx := cmd.Context()

		serverCfg := api.ServerConfigFrom(c.Config)
		if serveAddr != "" {
			serverCfg.Addr = serveAddr
		}
		server := api.NewServer(serverCfg, api.DepsFromContainer(c), c.Logger, c.Metrics)

		if c.Config.EmbeddedJobs() {
			if err := c.StartBackgroundJobs(ctx); err != nil {
				return err
			}
		}

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

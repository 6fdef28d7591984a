package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/mindful/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(ConfigFile())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := cmd.Context()
		conn, err := database.NewConnection(ctx, database.Config{
			Driver:     database.Driver(cfg.DatabaseDriver),
			URL:        cfg.DatabaseURL,
			SQLitePath: cfg.SQLitePath,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		if err := migrations.Run(ctx, conn); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", conn.Driver())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/mindful/pkg/observability"
)

var (
	cfgFile string
	verbose bool
	logger  = slog.Default()
)

type startedAtKey struct{}

var rootCmd = &cobra.Command{
	Use:   "mindful",
	Short: "Mindful - meditation practice tracker",
	Long: `Mindful records meditation sessions and turns them into streaks,
a practice heatmap and goal progress.

Run "mindful serve" for the HTTP API or use the commands below
directly against the local database.`,
	SilenceUsage: true,
	// Each invocation gets its own correlation id so the events it raises
	// can be traced back to the command.
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if verbose {
			logger = observability.NewLogger(observability.LogConfig{Level: "debug", Version: Version})
		}
		ctx = observability.WithCorrelationID(ctx, "")
		ctx = context.WithValue(ctx, startedAtKey{}, time.Now())
		cmd.SetContext(ctx)

		logger.DebugContext(ctx, "command start", "command", cmd.CommandPath())
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		started, ok := ctx.Value(startedAtKey{}).(time.Time)
		if !ok {
			return
		}
		logger.DebugContext(ctx, "command end",
			"command", cmd.CommandPath(),
			observability.DurationKey, time.Since(started).Milliseconds(),
		)
	},
}

// Execute runs the command tree and exits non-zero on error.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	closeApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file path")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand registers an extra top-level command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger replaces the CLI logger. Nil is ignored.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func ConfigFile() string {
	return cfgFile
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}

func correlationID(cmd *cobra.Command) string {
	return observability.CorrelationIDFromContext(cmd.Context())
}

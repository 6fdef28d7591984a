package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/mindful/pkg/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and cache connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		health := app.Container.Health.Check(cmd.Context())
		out := cmd.OutOrStdout()
		for _, name := range app.Container.Health.Names() {
			check := health.Checks[name]
			fmt.Fprintf(out, "%-10s %-10s %s\n", name, check.Status, check.Message)
		}
		if health.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		fmt.Fprintln(out, "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Work with practice goals",
}

var goalsProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show progress toward every active goal",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		progress, err := app.Container.Stats.GoalProgress(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(progress) == 0 {
			fmt.Fprintln(out, "No active goals.")
			return nil
		}
		for _, p := range progress {
			fmt.Fprintln(out, renderGoalProgress(p))
		}
		return nil
	},
}

const progressBarWidth = 20

func renderGoalProgress(p analytics.GoalProgress) string {
	filled := int(p.ProgressPercent / 100 * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := heatLevels[4].Render(strings.Repeat("█", filled)) +
		heatLevels[0].Render(strings.Repeat("░", progressBarWidth-filled))
	return fmt.Sprintf("%-16s %s %d/%d (%.1f%%)",
		labelStyle.Render(string(p.GoalType)), bar, p.CurrentValue, p.TargetValue, p.ProgressPercent)
}

func init() {
	goalsCmd.AddCommand(goalsProgressCmd)
	rootCmd.AddCommand(goalsCmd)
}

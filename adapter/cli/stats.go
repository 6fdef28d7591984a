package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	Long: `Display the all-time summary and the last seven days of practice.

Examples:
  mindful stats`,
	Aliases: []string{"summary"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		summary, err := app.Container.Stats.Summary(ctx)
		if err != nil {
			return err
		}
		weekly, err := app.Container.Stats.WeeklySummary(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderStats(summary, weekly))
		return nil
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current and longest streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		streak, err := app.Container.Stats.Streak(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStreak(streak))
		return nil
	},
}

func renderStats(summary analytics.Summary, weekly analytics.WeeklySummary) string {
	allTime := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("All time"),
		row("Sessions:", summary.TotalSessions),
		row("Minutes: ", summary.TotalMinutes),
		row("Streak:  ", fmt.Sprintf("%d (best %d)", summary.CurrentStreak, summary.LongestStreak)),
	)
	week := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Last 7 days"),
		row("Sessions:", weekly.Sessions),
		row("Minutes: ", weekly.Minutes),
	)
	return panelStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, allTime, "    ", week))
}

func renderStreak(streak analytics.StreakResult) string {
	var b strings.Builder
	b.WriteString(row("Current streak:", pluralDays(streak.Current)))
	b.WriteString("\n")
	b.WriteString(row("Longest streak:", pluralDays(streak.Longest)))
	return b.String()
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(streakCmd)
}

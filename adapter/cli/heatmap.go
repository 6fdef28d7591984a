package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/mindful/internal/analytics/application/queries"
	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

var heatmapDays int

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the practice heatmap",
	Long: `Render minutes practiced per day as a weekly grid.

Examples:
  mindful heatmap            # last year
  mindful heatmap --days 90  # last 90 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if heatmapDays <= 0 {
			return fmt.Errorf("--days must be positive")
		}
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		buckets, err := app.Container.Stats.Heatmap(cmd.Context(), queries.GetHeatmapQuery{Days: heatmapDays})
		if err != nil {
			return err
		}
		today := app.Container.Calendar.DateOf(time.Now())
		fmt.Fprintln(cmd.OutOrStdout(), renderHeatmap(buckets, today, heatmapDays))
		return nil
	},
}

var weekdayLabels = [7]string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}

// renderHeatmap lays days out in Monday-first columns ending at today.
func renderHeatmap(buckets []analytics.HeatmapBucket, today analytics.Date, days int) string {
	byDate := make(map[analytics.Date]analytics.HeatmapBucket, len(buckets))
	sessions, minutes := 0, 0
	for _, b := range buckets {
		byDate[b.Date] = b
		sessions += b.Sessions
		minutes += b.Minutes
	}

	start := today.AddDays(-(days - 1))
	gridStart := start.AddDays(-((int(start.Weekday()) + 6) % 7))
	weeks := today.DaysSince(gridStart)/7 + 1

	var b strings.Builder
	for r := 0; r < 7; r++ {
		b.WriteString(labelStyle.Render(weekdayLabels[r]))
		b.WriteString(" ")
		for w := 0; w < weeks; w++ {
			d := gridStart.AddDays(w*7 + r)
			if d.Before(start) || d.After(today) {
				b.WriteString("  ")
				continue
			}
			level := heatLevel(byDate[d].Minutes)
			glyph := "■"
			if level == 0 {
				glyph = "·"
			}
			b.WriteString(heatLevels[level].Render(glyph))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("Less "))
	for i, style := range heatLevels {
		glyph := "■"
		if i == 0 {
			glyph = "·"
		}
		b.WriteString(style.Render(glyph) + " ")
	}
	b.WriteString(labelStyle.Render("More"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d sessions, %d minutes in the last %d days", sessions, minutes, days)
	return b.String()
}

// heatLevel buckets daily minutes into five intensities.
func heatLevel(minutes int) int {
	switch {
	case minutes <= 0:
		return 0
	case minutes < 10:
		return 1
	case minutes < 20:
		return 2
	case minutes < 40:
		return 3
	default:
		return 4
	}
}

func init() {
	heatmapCmd.Flags().IntVar(&heatmapDays, "days", analytics.DefaultHeatmapDays, "number of trailing days")
	rootCmd.AddCommand(heatmapCmd)
}

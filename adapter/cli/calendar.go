package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	exportApp "github.com/felixgeelhaar/mindful/internal/export/application"
)

var (
	calendarFrom string
	calendarTo   string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Mirror sessions to a CalDAV calendar",
}

var calendarSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push completed sessions to the CalDAV calendar",
	Long: `Upsert completed sessions as events on the configured CalDAV calendar.
Events created by other applications are never overwritten.

Requires CALDAV_URL, CALDAV_USERNAME and CALDAV_PASSWORD.

Examples:
  mindful calendar sync
  mindful calendar sync --from 2026-03-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		from, to, err := parseRange(calendarFrom, calendarTo, app.Config.Location())
		if err != nil {
			return err
		}

		result, err := app.Container.Export.SyncCalendar(cmd.Context(), from, to)
		if errors.Is(err, exportApp.ErrMirrorNotConfigured) {
			return fmt.Errorf("CalDAV is not configured: set CALDAV_URL, CALDAV_USERNAME and CALDAV_PASSWORD")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Calendar sync: %d created, %d updated, %d failed\n",
			result.Created, result.Updated, result.Failed)
		return nil
	},
}

func init() {
	calendarSyncCmd.Flags().StringVar(&calendarFrom, "from", "", "earliest start date (YYYY-MM-DD)")
	calendarSyncCmd.Flags().StringVar(&calendarTo, "to", "", "latest start date (YYYY-MM-DD)")
	calendarCmd.AddCommand(calendarSyncCmd)
	rootCmd.AddCommand(calendarCmd)
}

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	practiceCommands "github.com/felixgeelhaar/mindful/internal/practice/application/commands"
	practiceQueries "github.com/felixgeelhaar/mindful/internal/practice/application/queries"
)

var (
	logMinutes    int
	logAt         string
	logVisual     string
	logMoodBefore string
	logMoodAfter  string
	logNote       string

	listLimit     int
	listFrom      string
	listTo        string
	listCompleted bool
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Short:   "Record and browse meditation sessions",
	Aliases: []string{"sessions"},
}

var sessionLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a completed session after the fact",
	Long: `Record a session you already sat. The session counts as completed
for the given number of minutes.

Examples:
  mindful session log --minutes 20
  mindful session log --minutes 10 --at 2026-03-10T07:30 --mood-after calm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if logMinutes <= 0 {
			return fmt.Errorf("--minutes must be positive")
		}
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		duration := time.Duration(logMinutes) * time.Minute

		startedAt := time.Now().Add(-duration)
		if logAt != "" {
			startedAt, err = practiceQueries.ParseTimeBound(logAt, app.Config.Location(), false)
			if err != nil {
				return err
			}
		}

		result, err := app.Container.LogSessionHandler.Handle(ctx, practiceCommands.LogSessionCommand{
			StartedAt:       startedAt,
			DurationSeconds: int(duration.Seconds()),
			VisualType:      optional(logVisual),
			MoodBefore:      optional(logMoodBefore),
			MoodAfter:       optional(logMoodAfter),
			Note:            optional(logNote),
		})
		if err != nil {
			return err
		}
		app.flush(ctx)

		logger.InfoContext(ctx, "session logged",
			"session_id", result.SessionID,
			"minutes", logMinutes,
			"correlation_id", correlationID(cmd),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %d min session %s\n", logMinutes, result.SessionID)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	Long: `List sessions, most recent first.

Examples:
  mindful session list
  mindful session list --from 2026-03-01 --to 2026-03-31 --completed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		from, to, err := parseRange(listFrom, listTo, app.Config.Location())
		if err != nil {
			return err
		}
		sessions, err := app.Container.ListSessionsHandler.Handle(cmd.Context(), practiceQueries.ListSessionsQuery{
			Limit:         listLimit,
			From:          from,
			To:            to,
			CompletedOnly: listCompleted,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		loc := app.Config.Location()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTARTED\tMINUTES\tDONE\tMOOD")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				s.ID.String()[:8],
				s.StartedAt.In(loc).Format("2006-01-02 15:04"),
				sessionMinutes(s),
				yesNo(s.Completed),
				deref(s.MoodAfter),
			)
		}
		return w.Flush()
	},
}

func sessionMinutes(s practiceQueries.SessionDTO) int {
	if s.ActualDurationSeconds != nil {
		return *s.ActualDurationSeconds / 60
	}
	return s.PlannedDurationSeconds / 60
}

// parseRange reads inclusive --from/--to flags.
func parseRange(fromValue, toValue string, loc *time.Location) (from, to *time.Time, err error) {
	if fromValue != "" {
		t, err := practiceQueries.ParseTimeBound(fromValue, loc, false)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if toValue != "" {
		t, err := practiceQueries.ParseTimeBound(toValue, loc, true)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	sessionLogCmd.Flags().IntVarP(&logMinutes, "minutes", "m", 0, "session length in minutes")
	sessionLogCmd.Flags().StringVar(&logAt, "at", "", "start time (defaults to now minus the duration)")
	sessionLogCmd.Flags().StringVar(&logVisual, "visual", "", "visual used during the session")
	sessionLogCmd.Flags().StringVar(&logMoodBefore, "mood-before", "", "mood before sitting")
	sessionLogCmd.Flags().StringVar(&logMoodAfter, "mood-after", "", "mood after sitting")
	sessionLogCmd.Flags().StringVar(&logNote, "note", "", "free-form note")

	sessionListCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum sessions to show")
	sessionListCmd.Flags().StringVar(&listFrom, "from", "", "earliest start date (YYYY-MM-DD)")
	sessionListCmd.Flags().StringVar(&listTo, "to", "", "latest start date (YYYY-MM-DD)")
	sessionListCmd.Flags().BoolVar(&listCompleted, "completed", false, "only completed sessions")

	sessionCmd.AddCommand(sessionLogCmd)
	sessionCmd.AddCommand(sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/mindful/internal/practice/application/commands"
	"github.com/felixgeelhaar/mindful/internal/practice/domain"
)

var (
	sitMinutes    int
	sitVisual     string
	sitMoodBefore string
	sitMoodAfter  string
	sitNote       string
)

var sitCmd = &cobra.Command{
	Use:   "sit",
	Short: "Meditate with a countdown timer and record the session",
	Long: `Start a timed meditation in the terminal. The session is recorded when
it starts; finishing the countdown marks it completed, quitting early keeps
the time you sat as an incomplete session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sitMinutes <= 0 {
			return fmt.Errorf("--minutes must be positive")
		}
		app, err := GetApp(cmd)
		if err != nil {
			return err
		}
		c := app.Container
		ctx := cmd.Context()

		startedAt := time.Now()
		created, err := c.CreateSessionHandler.Handle(ctx, commands.CreateSessionCommand{
			PlannedDurationSeconds: sitMinutes * 60,
			VisualType:             optional(sitVisual),
			StartedAt:              &startedAt,
		})
		if err != nil {
			return err
		}

		m := newSitModel(time.Duration(sitMinutes)*time.Minute, startedAt)
		program := tea.NewProgram(m,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		)
		final, runErr := program.Run()
		result, ok := final.(sitModel)
		if !ok {
			result = m
		}

		patch := result.patch(startedAt)
		patch.MoodBefore = optional(sitMoodBefore)
		patch.MoodAfter = optional(sitMoodAfter)
		patch.Note = optional(sitNote)
		if err := c.UpdateSessionHandler.Handle(ctx, commands.UpdateSessionCommand{
			SessionID: created.SessionID,
			Patch:     patch,
		}); err != nil {
			return err
		}
		app.flush(ctx)

		logger.Info("session recorded",
			"session_id", created.SessionID.String(),
			"completed", result.finished,
			"correlation_id", correlationID(cmd),
		)
		fmt.Fprintln(cmd.OutOrStdout(), result.summary())
		if runErr != nil && !result.quit && !result.finished {
			return runErr
		}
		return nil
	},
}

type sitTickMsg time.Time

func sitTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return sitTickMsg(t)
	})
}

// sitModel counts down a planned duration.
type sitModel struct {
	planned   time.Duration
	startedAt time.Time
	elapsed   time.Duration
	finished  bool
	quit      bool
}

func newSitModel(planned time.Duration, startedAt time.Time) sitModel {
	return sitModel{planned: planned, startedAt: startedAt}
}

func (m sitModel) Init() tea.Cmd {
	return sitTick()
}

func (m sitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sitTickMsg:
		m.elapsed = time.Time(msg).Sub(m.startedAt)
		if m.elapsed >= m.planned {
			m.elapsed = m.planned
			m.finished = true
			return m, tea.Quit
		}
		return m, sitTick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

var sitTimerStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4)

func (m sitModel) View() string {
	remaining := m.planned - m.elapsed
	if remaining < 0 {
		remaining = 0
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("🧘 Meditation"))
	b.WriteString("\n")
	b.WriteString(sitTimerStyle.Render(formatClock(remaining)))
	b.WriteString("\n")
	b.WriteString(m.bar())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("q to end early"))
	return panelStyle.Render(b.String())
}

func (m sitModel) bar() string {
	filled := 0
	if m.planned > 0 {
		filled = int(float64(m.elapsed) / float64(m.planned) * progressBarWidth)
	}
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	return heatLevels[4].Render(strings.Repeat("█", filled)) +
		heatLevels[0].Render(strings.Repeat("░", progressBarWidth-filled))
}

// patch records the time actually sat.
func (m sitModel) patch(startedAt time.Time) domain.SessionPatch {
	seconds := int(m.elapsed / time.Second)
	endedAt := startedAt.Add(m.elapsed)
	completed := m.finished
	return domain.SessionPatch{
		EndedAt:               &endedAt,
		ActualDurationSeconds: &seconds,
		Completed:             &completed,
	}
}

func (m sitModel) summary() string {
	if m.finished {
		return fmt.Sprintf("Session complete: %s", formatClock(m.elapsed))
	}
	return fmt.Sprintf("Session ended early after %s", formatClock(m.elapsed))
}

func formatClock(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func init() {
	sitCmd.Flags().IntVarP(&sitMinutes, "minutes", "m", 10, "planned duration in minutes")
	sitCmd.Flags().StringVar(&sitVisual, "visual", "", "visual type shown by clients")
	sitCmd.Flags().StringVar(&sitMoodBefore, "mood-before", "", "mood before sitting")
	sitCmd.Flags().StringVar(&sitMoodAfter, "mood-after", "", "mood after sitting")
	sitCmd.Flags().StringVar(&sitNote, "note", "", "free-form note")
	rootCmd.AddCommand(sitCmd)
}

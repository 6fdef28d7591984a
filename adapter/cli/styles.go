package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 2)

	// Heatmap intensity, GitHub-style greens.
	heatLevels = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#3a3a3a")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#0e4429")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#006d32")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#39d353")),
	}
)

func row(label string, value any) string {
	return labelStyle.Render(label) + " " + valueStyle.Render(toString(value))
}

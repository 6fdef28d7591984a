package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/app"
	"github.com/felixgeelhaar/mindful/internal/app/apptest"
)

func setupCLI(t *testing.T) *app.Container {
	t.Helper()
	c, _ := apptest.NewContainer(t, nil)
	SetApp(NewApp(c))
	t.Cleanup(func() { SetApp(nil) })
	return c
}

// runCLI executes the root command with fresh flag values.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mindful dev")
}

func TestGetApp_WithoutLoader(t *testing.T) {
	SetApp(nil)
	SetLoader(nil)
	_, err := runCLI(t, "stats")
	assert.ErrorIs(t, err, ErrNoLoader)
}

func TestGetApp_UsesLoaderOnce(t *testing.T) {
	c, _ := apptest.NewContainer(t, nil)
	calls := 0
	SetLoader(func(ctx context.Context, configFile string) (*App, error) {
		calls++
		assert.Equal(t, "mindful.yaml", configFile)
		return NewApp(c), nil
	})
	t.Cleanup(func() {
		SetLoader(nil)
		SetApp(nil)
	})

	_, err := runCLI(t, "streak", "--config", "mindful.yaml")
	require.NoError(t, err)
	_, err = runCLI(t, "streak", "--config", "mindful.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSessionLogAndList(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "session", "log", "--minutes", "20", "--mood-after", "calm")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged 20 min session")

	out, err = runCLI(t, "session", "list", "--completed")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "MINUTES")
	assert.Contains(t, lines[1], "20")
	assert.Contains(t, lines[1], "yes")
	assert.Contains(t, lines[1], "calm")

	out, err = runCLI(t, "session", "list", "--from", "2000-01-01", "--to", "2000-01-31")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestSessionLog_RejectsNonPositiveMinutes(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "session", "log", "--minutes", "0")
	assert.Error(t, err)
}

func TestStatsCommands(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "session", "log", "--minutes", "15")
	require.NoError(t, err)

	out, err := runCLI(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "All time")
	assert.Contains(t, out, "15")

	out, err = runCLI(t, "streak")
	require.NoError(t, err)
	assert.Contains(t, out, "1 day")

	out, err = runCLI(t, "heatmap", "--days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "1 sessions, 15 minutes in the last 7 days")

	_, err = runCLI(t, "heatmap", "--days", "0")
	assert.Error(t, err)
}

func TestGoalsProgressCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "goals", "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "No active goals.")
}

func TestExportCommand(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "session", "log", "--minutes", "10")
	require.NoError(t, err)

	out, err := runCLI(t, "export", "--format", "json")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc["sessions"], 1)

	path := filepath.Join(t.TempDir(), "journal.csv")
	out, err = runCLI(t, "export", "-f", "csv", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 sessions to")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(raw)), "\n"), 2)

	_, err = runCLI(t, "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestCalendarSync_NotConfigured(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "calendar", "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CalDAV is not configured")
}

func TestHealthCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "database")
	assert.Contains(t, out, "ok")
}

package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{9, 1},
		{10, 2},
		{19, 2},
		{20, 3},
		{39, 3},
		{40, 4},
		{240, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, heatLevel(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestRenderHeatmap_Week(t *testing.T) {
	// 2026-03-15 is a Sunday, so seven days fill one Monday-first column.
	today := analytics.Date{Year: 2026, Month: time.March, Day: 15}
	buckets := []analytics.HeatmapBucket{
		{Date: analytics.Date{Year: 2026, Month: time.March, Day: 10}, Minutes: 15, Sessions: 1},
		{Date: today, Minutes: 45, Sessions: 1},
	}

	out := renderHeatmap(buckets, today, 7)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "Mon"))
	assert.Equal(t, "2 sessions, 60 minutes in the last 7 days", lines[8])
	// two active days plus four legend swatches
	assert.Equal(t, 6, strings.Count(out, "■"))
	assert.Equal(t, 6, strings.Count(out, "·"))
}

func TestRenderHeatmap_PadsPartialWeeks(t *testing.T) {
	today := analytics.Date{Year: 2026, Month: time.March, Day: 11} // Wednesday

	out := renderHeatmap(nil, today, 3)

	// Mon to Wed plus the legend; Thu to Sun stay blank
	assert.Equal(t, 4, strings.Count(out, "·"))
	assert.Contains(t, out, "0 sessions, 0 minutes in the last 3 days")
}

func TestRenderGoalProgress(t *testing.T) {
	half := renderGoalProgress(analytics.GoalProgress{
		GoalType:        analytics.GoalTypeDailyMinutes,
		TargetValue:     20,
		CurrentValue:    10,
		ProgressPercent: 50,
	})
	assert.Contains(t, half, "daily_minutes")
	assert.Contains(t, half, "10/20 (50.0%)")
	assert.Equal(t, 10, strings.Count(half, "█"))
	assert.Equal(t, 10, strings.Count(half, "░"))

	over := renderGoalProgress(analytics.GoalProgress{
		GoalType:        analytics.GoalTypeWeeklySessions,
		TargetValue:     2,
		CurrentValue:    3,
		ProgressPercent: 150,
	})
	assert.Equal(t, progressBarWidth, strings.Count(over, "█"))
	assert.NotContains(t, over, "░")
}

func TestRenderStreak(t *testing.T) {
	out := renderStreak(analytics.StreakResult{Current: 1, Longest: 12})
	assert.Contains(t, out, "1 day")
	assert.Contains(t, out, "12 days")
}

func TestParseRange(t *testing.T) {
	from, to, err := parseRange("2026-03-01", "2026-03-31", time.UTC)
	require.NoError(t, err)
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.True(t, to.After(time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.True(t, to.Before(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))

	from, to, err = parseRange("", "", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = parseRange("yesterday", "", time.UTC)
	assert.Error(t, err)
}

func TestSitModel_FinishesAtPlannedDuration(t *testing.T) {
	start := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	var m tea.Model = newSitModel(2*time.Minute, start)

	m, cmd := m.Update(sitTickMsg(start.Add(30 * time.Second)))
	require.NotNil(t, cmd)
	assert.False(t, m.(sitModel).finished)
	assert.Contains(t, m.View(), "01:30")

	m, _ = m.Update(sitTickMsg(start.Add(2*time.Minute + time.Second)))
	final := m.(sitModel)
	assert.True(t, final.finished)
	assert.Equal(t, 2*time.Minute, final.elapsed)

	patch := final.patch(start)
	require.NotNil(t, patch.Completed)
	assert.True(t, *patch.Completed)
	assert.Equal(t, 120, *patch.ActualDurationSeconds)
	assert.Equal(t, start.Add(2*time.Minute), *patch.EndedAt)
	assert.Equal(t, "Session complete: 02:00", final.summary())
}

func TestSitModel_QuitEarly(t *testing.T) {
	start := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	var m tea.Model = newSitModel(10*time.Minute, start)

	m, _ = m.Update(sitTickMsg(start.Add(95 * time.Second)))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)

	final := m.(sitModel)
	assert.True(t, final.quit)
	assert.False(t, final.finished)

	patch := final.patch(start)
	assert.False(t, *patch.Completed)
	assert.Equal(t, 95, *patch.ActualDurationSeconds)
	assert.Equal(t, "Session ended early after 01:35", final.summary())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", formatClock(0))
	assert.Equal(t, "10:00", formatClock(10*time.Minute))
	assert.Equal(t, "61:05", formatClock(61*time.Minute+5*time.Second))
}

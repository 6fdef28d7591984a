package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GoalType encodes a goal's window (daily/weekly) and metric (minutes/sessions).
type GoalType string

const (
	GoalTypeDailyMinutes   GoalType = "daily_minutes"
	GoalTypeDailySessions  GoalType = "daily_sessions"
	GoalTypeWeeklyMinutes  GoalType = "weekly_minutes"
	GoalTypeWeeklySessions GoalType = "weekly_sessions"
)

// KnownGoalTypes lists the goal types accepted on creation.
var KnownGoalTypes = []GoalType{
	GoalTypeDailyMinutes,
	GoalTypeDailySessions,
	GoalTypeWeeklyMinutes,
	GoalTypeWeeklySessions,
}

// IsKnown reports whether t is one of the supported goal types.
func (t GoalType) IsKnown() bool {
	for _, known := range KnownGoalTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t GoalType) isDaily() bool       { return strings.HasPrefix(string(t), "daily_") }
func (t GoalType) isWeekly() bool      { return strings.HasPrefix(string(t), "weekly_") }
func (t GoalType) countsMinutes() bool { return strings.HasSuffix(string(t), "_minutes") }
func (t GoalType) countsSessions() bool {
	return strings.HasSuffix(string(t), "_sessions")
}

// GoalDefinition is the part of a goal the engine needs.
type GoalDefinition struct {
	ID          uuid.UUID
	GoalType    GoalType
	TargetValue int
	IsActive    bool
}

// GoalProgress reports how far a goal is within its current window.
type GoalProgress struct {
	GoalID          uuid.UUID `json:"goal_id"`
	GoalType        GoalType  `json:"goal_type"`
	TargetValue     int       `json:"target_value"`
	CurrentValue    int       `json:"current_value"`
	ProgressPercent float64   `json:"progress_percent"`
}

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolveWindow returns the goal's measurement window around now.
// Daily goals use today; weekly goals use the Monday-based week.
func (e Engine) ResolveWindow(goalType GoalType, now time.Time) (Window, bool) {
	today := e.calendar.DateOf(now)
	switch {
	case goalType.isDaily():
		return Window{
			Start: e.calendar.StartOf(today),
			End:   e.calendar.StartOf(today.AddDays(1)),
		}, true
	case goalType.isWeekly():
		monday := e.calendar.StartOfWeek(today)
		return Window{
			Start: e.calendar.StartOf(monday),
			End:   e.calendar.StartOf(monday.AddDays(7)),
		}, true
	default:
		return Window{}, false
	}
}

// ComputeGoalProgress resolves the goal window, keeps the sessions inside it and
// measures them. Sessions outside the window are ignored, so callers may pass a
// superset. Unknown goal types report zero progress instead of failing.
func (e Engine) ComputeGoalProgress(goal GoalDefinition, sessions []SessionFact, now time.Time) GoalProgress {
	progress := GoalProgress{
		GoalID:      goal.ID,
		GoalType:    goal.GoalType,
		TargetValue: goal.TargetValue,
	}

	window, ok := e.ResolveWindow(goal.GoalType, now)
	if !ok {
		return progress
	}

	inWindow := make([]SessionFact, 0, len(sessions))
	for _, s := range sessions {
		if window.Contains(s.StartedAt) {
			inWindow = append(inWindow, s)
		}
	}

	switch {
	case goal.GoalType.countsMinutes():
		progress.CurrentValue = TotalMinutes(inWindow)
	case goal.GoalType.countsSessions():
		progress.CurrentValue = len(inWindow)
	}

	progress.ProgressPercent = ProgressPercent(progress.CurrentValue, goal.TargetValue)
	return progress
}

// ProgressPercent is current/target*100 capped at 100 and rounded to one
// decimal, halves to even on the exact binary value (1/400 gives 0.2, 1/80
// gives 1.2). A non-positive target yields 0.
func ProgressPercent(current, target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := math.Min(100, float64(current)/float64(target)*100)
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(pct, 'f', 1, 64), 64)
	return rounded
}

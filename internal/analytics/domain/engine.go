// Package domain holds the analytics engine: streaks, heatmaps and goal progress
// derived from session facts. Nothing here performs I/O or reads the system clock;
// the caller supplies the reference instant and the Calendar fixes the timezone.
package domain

// Engine computes derived practice metrics in a single calendar timezone.
// An Engine is an immutable value and is safe for concurrent use.
type Engine struct {
	calendar Calendar
}

// NewEngine creates an engine that buckets instants using cal.
func NewEngine(cal Calendar) Engine {
	return Engine{calendar: cal}
}

// Calendar returns the engine's calendar.
func (e Engine) Calendar() Calendar {
	return e.calendar
}

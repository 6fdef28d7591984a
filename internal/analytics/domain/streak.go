package domain

import (
	"sort"
	"time"
)

// StreakResult holds the current and longest consecutive-day practice runs.
type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks derives streaks from session start instants.
//
// The current streak survives as long as the latest practice day is today or
// yesterday; it does not need to include today.
func (e Engine) ComputeStreaks(timestamps []time.Time, now time.Time) StreakResult {
	dates := e.distinctDates(timestamps)
	if len(dates) == 0 {
		return StreakResult{}
	}

	today := e.calendar.DateOf(now)
	return StreakResult{
		Current: currentRun(dates, today),
		Longest: longestRun(dates),
	}
}

// distinctDates returns the unique practice dates in ascending order.
func (e Engine) distinctDates(timestamps []time.Time) []Date {
	seen := make(map[Date]struct{}, len(timestamps))
	dates := make([]Date, 0, len(timestamps))
	for _, ts := range timestamps {
		d := e.calendar.DateOf(ts)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// currentRun walks backwards from the latest date. dates must be ascending.
func currentRun(dates []Date, today Date) int {
	latest := dates[len(dates)-1]
	if latest.Before(today.AddDays(-1)) {
		return 0
	}

	run := 1
	for i := len(dates) - 1; i > 0; i-- {
		if dates[i].DaysSince(dates[i-1]) != 1 {
			break
		}
		run++
	}
	return run
}

// longestRun finds the maximal consecutive run. dates must be ascending.
func longestRun(dates []Date) int {
	longest, run := 0, 0
	for i, d := range dates {
		if i > 0 && d.DaysSince(dates[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

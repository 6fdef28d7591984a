package domain

import "time"

// Summary is the all-time practice overview.
type Summary struct {
	TotalSessions int `json:"total_sessions"`
	TotalMinutes  int `json:"total_minutes"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// Summarize totals the completed sessions and derives their streaks.
func (e Engine) Summarize(sessions []SessionFact, now time.Time) Summary {
	streaks := e.ComputeStreaks(Timestamps(sessions), now)
	return Summary{
		TotalSessions: len(sessions),
		TotalMinutes:  TotalMinutes(sessions),
		CurrentStreak: streaks.Current,
		LongestStreak: streaks.Longest,
	}
}

// WeeklySummary covers the trailing seven days.
type WeeklySummary struct {
	Sessions int `json:"sessions"`
	Minutes  int `json:"minutes"`
	Streak   int `json:"streak"`
}

// SummarizeWeek counts sessions started in the last seven days and reports the
// current streak over the full history.
func (e Engine) SummarizeWeek(sessions []SessionFact, now time.Time) WeeklySummary {
	cutoff := now.Add(-7 * 24 * time.Hour)
	var week []SessionFact
	for _, s := range sessions {
		if !s.StartedAt.Before(cutoff) {
			week = append(week, s)
		}
	}
	return WeeklySummary{
		Sessions: len(week),
		Minutes:  TotalMinutes(week),
		Streak:   e.ComputeStreaks(Timestamps(sessions), now).Current,
	}
}

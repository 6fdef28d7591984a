package domain

import "time"

// SessionFact is the read-only projection of a practice session that analytics consume.
type SessionFact struct {
	StartedAt              time.Time
	Completed              bool
	ActualDurationSeconds  *int
	PlannedDurationSeconds int
}

// Minutes returns the actual duration in whole minutes, truncated.
// An interrupted session without a recorded duration counts as zero.
func (f SessionFact) Minutes() int {
	if f.ActualDurationSeconds == nil || *f.ActualDurationSeconds <= 0 {
		return 0
	}
	return *f.ActualDurationSeconds / 60
}

// Timestamps extracts the start instants of the facts.
func Timestamps(facts []SessionFact) []time.Time {
	out := make([]time.Time, 0, len(facts))
	for _, f := range facts {
		out = append(out, f.StartedAt)
	}
	return out
}

// TotalMinutes sums truncated per-session minutes.
func TotalMinutes(facts []SessionFact) int {
	total := 0
	for _, f := range facts {
		total += f.Minutes()
	}
	return total
}

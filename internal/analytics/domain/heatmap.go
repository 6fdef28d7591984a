package domain

import (
	"sort"
	"time"
)

// DefaultHeatmapDays is the trailing window used when none is requested.
const DefaultHeatmapDays = 365

// HeatmapBucket aggregates one practice day.
type HeatmapBucket struct {
	Date     Date `json:"date"`
	Minutes  int  `json:"minutes"`
	Sessions int  `json:"sessions"`
}

// ComputeHeatmap groups sessions started within the trailing window into per-day
// buckets. The result is sparse (days without sessions are omitted) and ascending.
func (e Engine) ComputeHeatmap(sessions []SessionFact, windowDays int, now time.Time) []HeatmapBucket {
	if windowDays <= 0 {
		return []HeatmapBucket{}
	}

	cutoff := now.Add(-time.Duration(windowDays) * 24 * time.Hour)
	byDate := make(map[Date]*HeatmapBucket)
	for _, s := range sessions {
		if s.StartedAt.Before(cutoff) {
			continue
		}
		d := e.calendar.DateOf(s.StartedAt)
		bucket, ok := byDate[d]
		if !ok {
			bucket = &HeatmapBucket{Date: d}
			byDate[d] = bucket
		}
		bucket.Minutes += s.Minutes()
		bucket.Sessions++
	}

	buckets := make([]HeatmapBucket, 0, len(byDate))
	for _, b := range byDate {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date.Before(buckets[j].Date) })
	return buckets
}

package api

import (
	"net/http"

	"github.com/felixgeelhaar/mindful/internal/analytics/application/queries"
	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
)

func (s *Server) statsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Stats.Summary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) statsHeatmap(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", analytics.DefaultHeatmapDays)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if days <= 0 {
		s.fail(w, r, badRequest("days must be positive"))
		return
	}
	buckets, err := s.deps.Stats.Heatmap(r.Context(), queries.GetHeatmapQuery{Days: days})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if buckets == nil {
		buckets = []analytics.HeatmapBucket{}
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) statsStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.deps.Stats.Streak(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

func (s *Server) statsWeekly(w http.ResponseWriter, r *http.Request) {
	weekly, err := s.deps.Stats.WeeklySummary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekly)
}

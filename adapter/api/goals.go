package api

import (
	"net/http"

	"github.com/google/uuid"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	goalCommands "github.com/felixgeelhaar/mindful/internal/goals/application/commands"
	goalQueries "github.com/felixgeelhaar/mindful/internal/goals/application/queries"
	goalDomain "github.com/felixgeelhaar/mindful/internal/goals/domain"
)

type createGoalRequest struct {
	GoalType    string          `json:"goal_type"`
	TargetValue int             `json:"target_value"`
	StartDate   *analytics.Date `json:"start_date"`
	EndDate     *analytics.Date `json:"end_date"`
}

type updateGoalRequest struct {
	TargetValue *int            `json:"target_value"`
	EndDate     *analytics.Date `json:"end_date"`
	IsActive    *bool           `json:"is_active"`
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "active_only", true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	goals, err := s.deps.ListGoals.Handle(r.Context(), goalQueries.ListGoalsQuery{ActiveOnly: activeOnly})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	result, err := s.deps.CreateGoal.Handle(r.Context(), goalCommands.CreateGoalCommand{
		GoalType:    req.GoalType,
		TargetValue: req.TargetValue,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeGoal(w, r, result.GoalID)
}

func (s *Server) getGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeGoal(w, r, id)
}

func (s *Server) updateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req updateGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	err = s.deps.UpdateGoal.Handle(r.Context(), goalCommands.UpdateGoalCommand{
		GoalID: id,
		Patch:  goalDomain.GoalPatch(req),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeGoal(w, r, id)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.deps.DeleteGoal.Handle(r.Context(), goalCommands.DeleteGoalCommand{GoalID: id}); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) goalsProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.deps.Stats.GoalProgress(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if progress == nil {
		progress = []analytics.GoalProgress{}
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) writeGoal(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	dto, err := s.deps.GetGoal.Handle(r.Context(), goalQueries.GetGoalQuery{GoalID: id})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

package queries

import (
	"context"
	"time"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/goals/domain"
	"github.com/google/uuid"
)

// GoalDTO is the read model for a goal.
type GoalDTO struct {
	ID          uuid.UUID          `json:"id"`
	GoalType    analytics.GoalType `json:"goal_type"`
	TargetValue int                `json:"target_value"`
	StartDate   analytics.Date     `json:"start_date"`
	EndDate     *analytics.Date    `json:"end_date"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ToGoalDTO maps a goal aggregate to its read model.
func ToGoalDTO(g *domain.Goal) GoalDTO {
	snap := g.Snapshot()
	return GoalDTO{
		ID:          snap.ID,
		GoalType:    snap.GoalType,
		TargetValue: snap.TargetValue,
		StartDate:   snap.StartDate,
		EndDate:     snap.EndDate,
		IsActive:    snap.IsActive,
		CreatedAt:   snap.CreatedAt,
	}
}

// GetGoalQuery selects a single goal.
type GetGoalQuery struct {
	GoalID uuid.UUID
}

// GetGoalHandler handles the GetGoalQuery.
type GetGoalHandler struct {
	goalRepo domain.Repository
}

// NewGetGoalHandler creates a new GetGoalHandler.
func NewGetGoalHandler(goalRepo domain.Repository) *GetGoalHandler {
	return &GetGoalHandler{goalRepo: goalRepo}
}

// Handle executes the GetGoalQuery.
func (h *GetGoalHandler) Handle(ctx context.Context, query GetGoalQuery) (*GoalDTO, error) {
	goal, err := h.goalRepo.FindByID(ctx, query.GoalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, domain.ErrGoalNotFound
	}
	dto := ToGoalDTO(goal)
	return &dto, nil
}

// ListGoalsQuery contains the parameters for listing goals.
type ListGoalsQuery struct {
	ActiveOnly bool
}

// ListGoalsHandler handles the ListGoalsQuery.
type ListGoalsHandler struct {
	goalRepo domain.Repository
}

// NewListGoalsHandler creates a new ListGoalsHandler.
func NewListGoalsHandler(goalRepo domain.Repository) *ListGoalsHandler {
	return &ListGoalsHandler{goalRepo: goalRepo}
}

// Handle executes the ListGoalsQuery.
func (h *ListGoalsHandler) Handle(ctx context.Context, query ListGoalsQuery) ([]GoalDTO, error) {
	goals, err := h.goalRepo.List(ctx, query.ActiveOnly)
	if err != nil {
		return nil, err
	}
	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, ToGoalDTO(g))
	}
	return dtos, nil
}

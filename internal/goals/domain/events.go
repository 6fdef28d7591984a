package domain

import (
	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	sharedDomain "github.com/felixgeelhaar/mindful/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Goal"

const (
	RoutingKeyGoalCreated = "goals.goal.created"
	RoutingKeyGoalUpdated = "goals.goal.updated"
	RoutingKeyGoalDeleted = "goals.goal.deleted"
)

// GoalCreated is emitted when a goal is set.
type GoalCreated struct {
	sharedDomain.Event
	GoalID      uuid.UUID          `json:"goal_id"`
	GoalType    analytics.GoalType `json:"goal_type"`
	TargetValue int                `json:"target_value"`
}

// NewGoalCreated creates a GoalCreated event.
func NewGoalCreated(g *Goal) *GoalCreated {
	return &GoalCreated{
		Event:       sharedDomain.NewEvent(aggregateType, g.ID(), RoutingKeyGoalCreated),
		GoalID:      g.ID(),
		GoalType:    g.goalType,
		TargetValue: g.targetValue,
	}
}

// GoalUpdated is emitted when a goal's target, end date or active flag changes.
type GoalUpdated struct {
	sharedDomain.Event
	GoalID      uuid.UUID `json:"goal_id"`
	TargetValue int       `json:"target_value"`
	IsActive    bool      `json:"is_active"`
}

// NewGoalUpdated creates a GoalUpdated event.
func NewGoalUpdated(g *Goal) *GoalUpdated {
	return &GoalUpdated{
		Event:       sharedDomain.NewEvent(aggregateType, g.ID(), RoutingKeyGoalUpdated),
		GoalID:      g.ID(),
		TargetValue: g.targetValue,
		IsActive:    g.isActive,
	}
}

// GoalDeleted is emitted when a goal is removed.
type GoalDeleted struct {
	sharedDomain.Event
	GoalID uuid.UUID `json:"goal_id"`
}

// NewGoalDeleted creates a GoalDeleted event.
func NewGoalDeleted(g *Goal) *GoalDeleted {
	return &GoalDeleted{
		Event:  sharedDomain.NewEvent(aggregateType, g.ID(), RoutingKeyGoalDeleted),
		GoalID: g.ID(),
	}
}

// Package domain holds the goal aggregate. Progress against a goal is measured
// by the analytics engine; this package only owns the goal's definition.
package domain

import (
	"errors"
	"time"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	sharedDomain "github.com/felixgeelhaar/mindful/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrGoalNotFound       = errors.New("goal not found")
	ErrInvalidGoalType    = errors.New("goal type must be daily_minutes, daily_sessions, weekly_minutes or weekly_sessions")
	ErrInvalidTargetValue = errors.New("target value must be positive")
	ErrInvalidEndDate     = errors.New("end date cannot be before start date")
)

// Goal is a daily or weekly practice target.
type Goal struct {
	sharedDomain.Root
	goalType    analytics.GoalType
	targetValue int
	startDate   analytics.Date
	endDate     *analytics.Date
	isActive    bool
}

// NewGoal creates an active goal. A zero startDate defaults to today in cal.
func NewGoal(goalType analytics.GoalType, targetValue int, startDate analytics.Date, endDate *analytics.Date, cal analytics.Calendar, now time.Time) (*Goal, error) {
	if !goalType.IsKnown() {
		return nil, ErrInvalidGoalType
	}
	if targetValue <= 0 {
		return nil, ErrInvalidTargetValue
	}
	if startDate.IsZero() {
		startDate = cal.DateOf(now)
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, ErrInvalidEndDate
	}

	now = now.UTC()
	g := &Goal{
		Root:        sharedDomain.NewRoot(uuid.New(), now, now),
		goalType:    goalType,
		targetValue: targetValue,
		startDate:   startDate,
		endDate:     endDate,
		isActive:    true,
	}
	g.Record(NewGoalCreated(g))
	return g, nil
}

// GoalSnapshot is the persisted state of a goal.
type GoalSnapshot struct {
	ID          uuid.UUID
	GoalType    analytics.GoalType
	TargetValue int
	StartDate   analytics.Date
	EndDate     *analytics.Date
	IsActive    bool
	CreatedAt   time.Time
}

// RehydrateGoal rebuilds a goal from storage. Stored goal types are not
// re-validated; the engine reports zero progress for unknown ones.
func RehydrateGoal(s GoalSnapshot) *Goal {
	return &Goal{
		Root:        sharedDomain.NewRoot(s.ID, s.CreatedAt, s.CreatedAt),
		goalType:    s.GoalType,
		targetValue: s.TargetValue,
		startDate:   s.StartDate,
		endDate:     s.EndDate,
		isActive:    s.IsActive,
	}
}

// Snapshot returns the goal's state.
func (g *Goal) Snapshot() GoalSnapshot {
	return GoalSnapshot{
		ID:          g.ID(),
		GoalType:    g.goalType,
		TargetValue: g.targetValue,
		StartDate:   g.startDate,
		EndDate:     g.endDate,
		IsActive:    g.isActive,
		CreatedAt:   g.CreatedAt(),
	}
}

func (g *Goal) GoalType() analytics.GoalType { return g.goalType }
func (g *Goal) TargetValue() int             { return g.targetValue }
func (g *Goal) StartDate() analytics.Date    { return g.startDate }
func (g *Goal) EndDate() *analytics.Date     { return g.endDate }
func (g *Goal) IsActive() bool               { return g.isActive }

// GoalPatch holds the updatable fields; nil means unchanged.
type GoalPatch struct {
	TargetValue *int
	EndDate     *analytics.Date
	IsActive    *bool
}

// Apply updates the fields set in the patch.
func (g *Goal) Apply(patch GoalPatch) error {
	if patch.TargetValue != nil && *patch.TargetValue <= 0 {
		return ErrInvalidTargetValue
	}
	if patch.EndDate != nil && patch.EndDate.Before(g.startDate) {
		return ErrInvalidEndDate
	}
	if patch.TargetValue == nil && patch.EndDate == nil && patch.IsActive == nil {
		return nil
	}

	if patch.TargetValue != nil {
		g.targetValue = *patch.TargetValue
	}
	if patch.EndDate != nil {
		end := *patch.EndDate
		g.endDate = &end
	}
	if patch.IsActive != nil {
		g.isActive = *patch.IsActive
	}

	g.Touch()
	g.Record(NewGoalUpdated(g))
	return nil
}

// MarkDeleted records the deletion.
func (g *Goal) MarkDeleted() {
	g.Record(NewGoalDeleted(g))
}

// Definition projects the goal into the analytics engine's input.
func (g *Goal) Definition() analytics.GoalDefinition {
	return analytics.GoalDefinition{
		ID:          g.ID(),
		GoalType:    g.goalType,
		TargetValue: g.targetValue,
		IsActive:    g.isActive,
	}
}

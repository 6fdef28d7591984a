package commands

import (
	"context"
	"time"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/goals/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateGoalCommand sets a new goal.
type CreateGoalCommand struct {
	GoalType    string
	TargetValue int
	// StartDate defaults to today.
	StartDate *analytics.Date
	EndDate   *analytics.Date
}

// CreateGoalResult contains the result of creating a goal.
type CreateGoalResult struct {
	GoalID uuid.UUID
}

// CreateGoalHandler handles the CreateGoalCommand.
type CreateGoalHandler struct {
	goalRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	calendar   analytics.Calendar
	now        func() time.Time
}

// NewCreateGoalHandler creates a new CreateGoalHandler. Default start dates are
// resolved in cal.
func NewCreateGoalHandler(goalRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork, cal analytics.Calendar) *CreateGoalHandler {
	return &CreateGoalHandler{
		goalRepo:   goalRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		calendar:   cal,
		now:        time.Now,
	}
}

// Handle executes the CreateGoalCommand.
func (h *CreateGoalHandler) Handle(ctx context.Context, cmd CreateGoalCommand) (*CreateGoalResult, error) {
	var start analytics.Date
	if cmd.StartDate != nil {
		start = *cmd.StartDate
	}

	goal, err := domain.NewGoal(analytics.GoalType(cmd.GoalType), cmd.TargetValue, start, cmd.EndDate, h.calendar, h.now())
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.goalRepo.Save(txCtx, goal); err != nil {
			return err
		}
		return outbox.SaveAggregateEvents(txCtx, h.outboxRepo, goal)
	})
	if err != nil {
		return nil, err
	}

	return &CreateGoalResult{GoalID: goal.ID()}, nil
}

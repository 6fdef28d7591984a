package commands

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/goals/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateGoalCommand changes a goal's target, end date or active flag.
type UpdateGoalCommand struct {
	GoalID uuid.UUID
	Patch  domain.GoalPatch
}

// UpdateGoalHandler handles the UpdateGoalCommand.
type UpdateGoalHandler struct {
	goalRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateGoalHandler creates a new UpdateGoalHandler.
func NewUpdateGoalHandler(goalRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateGoalHandler {
	return &UpdateGoalHandler{goalRepo: goalRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the UpdateGoalCommand.
func (h *UpdateGoalHandler) Handle(ctx context.Context, cmd UpdateGoalCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		goal, err := h.goalRepo.FindByID(txCtx, cmd.GoalID)
		if err != nil {
			return err
		}
		if goal == nil {
			return domain.ErrGoalNotFound
		}

		if err := goal.Apply(cmd.Patch); err != nil {
			return err
		}
		if err := h.goalRepo.Save(txCtx, goal); err != nil {
			return err
		}
		return outbox.SaveAggregateEvents(txCtx, h.outboxRepo, goal)
	})
}

package commands

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/goals/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteGoalCommand removes a goal.
type DeleteGoalCommand struct {
	GoalID uuid.UUID
}

// DeleteGoalHandler handles the DeleteGoalCommand.
type DeleteGoalHandler struct {
	goalRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteGoalHandler creates a new DeleteGoalHandler.
func NewDeleteGoalHandler(goalRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteGoalHandler {
	return &DeleteGoalHandler{goalRepo: goalRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the DeleteGoalCommand.
func (h *DeleteGoalHandler) Handle(ctx context.Context, cmd DeleteGoalCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		goal, err := h.goalRepo.FindByID(txCtx, cmd.GoalID)
		if err != nil {
			return err
		}
		if goal == nil {
			return domain.ErrGoalNotFound
		}

		goal.MarkDeleted()
		if err := h.goalRepo.Delete(txCtx, goal.ID()); err != nil {
			return err
		}
		return outbox.SaveAggregateEvents(txCtx, h.outboxRepo, goal)
	})
}

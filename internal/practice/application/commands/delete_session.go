package commands

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteSessionCommand removes a session.
type DeleteSessionCommand struct {
	SessionID uuid.UUID
}

// DeleteSessionHandler handles the DeleteSessionCommand.
type DeleteSessionHandler struct {
	sessionRepo domain.SessionRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewDeleteSessionHandler creates a new DeleteSessionHandler.
func NewDeleteSessionHandler(sessionRepo domain.SessionRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteSessionHandler {
	return &DeleteSessionHandler{
		sessionRepo: sessionRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the DeleteSessionCommand.
func (h *DeleteSessionHandler) Handle(ctx context.Context, cmd DeleteSessionCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		session, err := h.sessionRepo.FindByID(txCtx, cmd.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrSessionNotFound
		}

		session.MarkDeleted()
		if err := h.sessionRepo.Delete(txCtx, session.ID()); err != nil {
			return err
		}
		return outbox.SaveAggregateEvents(txCtx, h.outboxRepo, session)
	})
}

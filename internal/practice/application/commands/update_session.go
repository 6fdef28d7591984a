package commands

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateSessionCommand applies a partial update to a session.
type UpdateSessionCommand struct {
	SessionID uuid.UUID
	Patch     domain.SessionPatch
}

// UpdateSessionHandler handles the UpdateSessionCommand.
type UpdateSessionHandler struct {
	sessionRepo domain.SessionRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewUpdateSessionHandler creates a new UpdateSessionHandler.
func NewUpdateSessionHandler(sessionRepo domain.SessionRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateSessionHandler {
	return &UpdateSessionHandler{
		sessionRepo: sessionRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the UpdateSessionCommand.
func (h *UpdateSessionHandler) Handle(ctx context.Context, cmd UpdateSessionCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		session, err := h.sessionRepo.FindByID(txCtx, cmd.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrSessionNotFound
		}

		if err := session.Apply(cmd.Patch); err != nil {
			return err
		}

		if err := h.sessionRepo.Save(txCtx, session); err != nil {
			return err
		}
		return outbox.SaveAggregateEvents(txCtx, h.outboxRepo, session)
	})
}

package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateSessionCommand starts a new session.
type CreateSessionCommand struct {
	PlannedDurationSeconds int
	VisualType             *string
	BellSound              *string
	// StartedAt defaults to now.
	StartedAt *time.Time
}

// CreateSessionResult contains the result of creating a session.
type CreateSessionResult struct {
	SessionID uuid.UUID
}

// CreateSessionHandler handles the CreateSessionCommand.
type CreateSessionHandler struct {
	sessionRepo domain.SessionRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	now         func() time.Time
}

// NewCreateSessionHandler creates a new CreateSessionHandler.
func NewCreateSessionHandler(sessionRepo domain.SessionRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateSessionHandler {
	return &CreateSessionHandler{
		sessionRepo: sessionRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		now:         time.Now,
	}
}

// Handle executes the CreateSessionCommand.
func (h *CreateSessionHandler) Handle(ctx context.Context, cmd CreateSessionCommand) (*CreateSessionResult, error) {
	startedAt := h.now()
	if cmd.StartedAt != nil {
		startedAt = *cmd.StartedAt
	}

	session, err := domain.NewSession(cmd.PlannedDurationSeconds, cmd.VisualType, cmd.BellSound, startedAt)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.sessionRepo.Save(txCtx, session); err != nil {
			return err
		}
		return outbox.SaveAggregateEvents(txCtx, h.outboxRepo, session)
	})
	if err != nil {
		return nil, err
	}

	return &CreateSessionResult{SessionID: session.ID()}, nil
}

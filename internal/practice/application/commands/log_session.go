package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
)

// LogSessionCommand records a session that has already been sat, in one step.
// Used by the terminal timer and for back-filling history.
type LogSessionCommand struct {
	StartedAt       time.Time
	DurationSeconds int
	VisualType      *string
	MoodBefore      *string
	MoodAfter       *string
	Note            *string
}

// LogSessionHandler handles the LogSessionCommand.
type LogSessionHandler struct {
	sessionRepo domain.SessionRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewLogSessionHandler creates a new LogSessionHandler.
func NewLogSessionHandler(sessionRepo domain.SessionRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *LogSessionHandler {
	return &LogSessionHandler{
		sessionRepo: sessionRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the LogSessionCommand.
func (h *LogSessionHandler) Handle(ctx context.Context, cmd LogSessionCommand) (*CreateSessionResult, error) {
	session, err := domain.NewSession(cmd.DurationSeconds, cmd.VisualType, nil, cmd.StartedAt)
	if err != nil {
		return nil, err
	}

	endedAt := cmd.StartedAt.Add(time.Duration(cmd.DurationSeconds) * time.Second)
	completed := true
	err = session.Apply(domain.SessionPatch{
		EndedAt:               &endedAt,
		ActualDurationSeconds: &cmd.DurationSeconds,
		Completed:             &completed,
		MoodBefore:            cmd.MoodBefore,
		MoodAfter:             cmd.MoodAfter,
		Note:                  cmd.Note,
	})
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

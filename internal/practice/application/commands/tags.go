package commands

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	sharedApplication "github.com/felixgeelhaar/mindful/internal/shared/application"
	"github.com/google/uuid"
)

// CreateTagCommand creates a tag.
type CreateTagCommand struct {
	NameKo    string
	NameEn    string
	Color     string
	IsDefault bool
}

// CreateTagHandler handles the CreateTagCommand.
type CreateTagHandler struct {
	tagRepo domain.TagRepository
}

// NewCreateTagHandler creates a new CreateTagHandler.
func NewCreateTagHandler(tagRepo domain.TagRepository) *CreateTagHandler {
	return &CreateTagHandler{tagRepo: tagRepo}
}

// Handle executes the CreateTagCommand.
func (h *CreateTagHandler) Handle(ctx context.Context, cmd CreateTagCommand) (*domain.Tag, error) {
	tag, err := domain.NewTag(cmd.NameKo, cmd.NameEn, cmd.Color, cmd.IsDefault)
	if err != nil {
		return nil, err
	}
	if err := h.tagRepo.Save(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTagCommand removes a tag and detaches it from every session.
type DeleteTagCommand struct {
	TagID uuid.UUID
}

// DeleteTagHandler handles the DeleteTagCommand.
type DeleteTagHandler struct {
	tagRepo domain.TagRepository
	uow     sharedApplication.UnitOfWork
}

// NewDeleteTagHandler creates a new DeleteTagHandler.
func NewDeleteTagHandler(tagRepo domain.TagRepository, uow sharedApplication.UnitOfWork) *DeleteTagHandler {
	return &DeleteTagHandler{tagRepo: tagRepo, uow: uow}
}

// Handle executes the DeleteTagCommand.
func (h *DeleteTagHandler) Handle(ctx context.Context, cmd DeleteTagCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		tag, err := h.tagRepo.FindByID(txCtx, cmd.TagID)
		if err != nil {
			return err
		}
		if tag == nil {
			return domain.ErrTagNotFound
		}
		return h.tagRepo.Delete(txCtx, tag.ID)
	})
}

// SetSessionTagsCommand replaces a session's tags.
type SetSessionTagsCommand struct {
	SessionID uuid.UUID
	TagIDs    []uuid.UUID
}

// SetSessionTagsHandler handles the SetSessionTagsCommand.
type SetSessionTagsHandler struct {
	sessionRepo domain.SessionRepository
	tagRepo     domain.TagRepository
	uow         sharedApplication.UnitOfWork
}

// NewSetSessionTagsHandler creates a new SetSessionTagsHandler.
func NewSetSessionTagsHandler(sessionRepo domain.SessionRepository, tagRepo domain.TagRepository, uow sharedApplication.UnitOfWork) *SetSessionTagsHandler {
	return &SetSessionTagsHandler{sessionRepo: sessionRepo, tagRepo: tagRepo, uow: uow}
}

// Handle executes the SetSessionTagsCommand. The swap is all-or-nothing.
func (h *SetSessionTagsHandler) Handle(ctx context.Context, cmd SetSessionTagsCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		session, err := h.sessionRepo.FindByID(txCtx, cmd.SessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return domain.ErrSessionNotFound
		}

		for _, tagID := range cmd.TagIDs {
			tag, err := h.tagRepo.FindByID(txCtx, tagID)
			if err != nil {
				return err
			}
			if tag == nil {
				return domain.ErrTagNotFound
			}
		}

		return h.tagRepo.ReplaceSessionTags(txCtx, cmd.SessionID, cmd.TagIDs)
	})
}

package commands

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateTagHandler_Handle(t *testing.T) {
	t.Run("creates with default color", func(t *testing.T) {
		repo := new(mockTagRepo)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Tag")).Return(nil)

		tag, err := NewCreateTagHandler(repo).Handle(context.Background(), CreateTagCommand{NameKo: "아침", NameEn: "Morning"})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTagColor, tag.Color)
		repo.AssertExpectations(t)
	})

	t.Run("validation error skips save", func(t *testing.T) {
		repo := new(mockTagRepo)

		_, err := NewCreateTagHandler(repo).Handle(context.Background(), CreateTagCommand{NameKo: "아침"})

		assert.ErrorIs(t, err, domain.ErrEmptyTagName)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestDeleteTagHandler_Handle(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey{}, "transaction")

	t.Run("deletes existing tag", func(t *testing.T) {
		tag, err := domain.NewTag("아침", "Morning", "", false)
		require.NoError(t, err)
		repo := new(mockTagRepo)
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, tag.ID).Return(tag, nil)
		repo.On("Delete", txCtx, tag.ID).Return(nil)

		require.NoError(t, NewDeleteTagHandler(repo, uow).Handle(ctx, DeleteTagCommand{TagID: tag.ID}))
		repo.AssertExpectations(t)
	})

	t.Run("missing tag", func(t *testing.T) {
		id := uuid.New()
		repo := new(mockTagRepo)
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, id).Return(nil, nil)

		err := NewDeleteTagHandler(repo, uow).Handle(ctx, DeleteTagCommand{TagID: id})
		assert.ErrorIs(t, err, domain.ErrTagNotFound)
	})
}

func TestSetSessionTagsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey{}, "transaction")

	session, err := domain.NewSession(300, nil, nil, time.Now())
	require.NoError(t, err)
	tag, err := domain.NewTag("호흡", "Breath", "", false)
	require.NoError(t, err)

	t.Run("replaces the tag set", func(t *testing.T) {
		sessions := new(mockSessionRepo)
		tags := new(mockTagRepo)
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		sessions.On("FindByID", txCtx, session.ID()).Return(session, nil)
		tags.On("FindByID", txCtx, tag.ID).Return(tag, nil)
		tags.On("ReplaceSessionTags", txCtx, session.ID(), []uuid.UUID{tag.ID}).Return(nil)

		err := NewSetSessionTagsHandler(sessions, tags, uow).Handle(ctx, SetSessionTagsCommand{
			SessionID: session.ID(),
			TagIDs:    []uuid.UUID{tag.ID},
		})

		require.NoError(t, err)
		tags.AssertExpectations(t)
	})

	t.Run("unknown tag aborts", func(t *testing.T) {
		unknown := uuid.New()
		sessions := new(mockSessionRepo)
		tags := new(mockTagRepo)
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		sessions.On("FindByID", txCtx, session.ID()).Return(session, nil)
		tags.On("FindByID", txCtx, unknown).Return(nil, nil)

		err := NewSetSessionTagsHandler(sessions, tags, uow).Handle(ctx, SetSessionTagsCommand{
			SessionID: session.ID(),
			TagIDs:    []uuid.UUID{unknown},
		})

		assert.ErrorIs(t, err, domain.ErrTagNotFound)
		tags.AssertNotCalled(t, "ReplaceSessionTags", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown session", func(t *testing.T) {
		id := uuid.New()
		sessions := new(mockSessionRepo)
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		sessions.On("FindByID", txCtx, id).Return(nil, nil)

		err := NewSetSessionTagsHandler(sessions, new(mockTagRepo), uow).Handle(ctx, SetSessionTagsCommand{SessionID: id})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

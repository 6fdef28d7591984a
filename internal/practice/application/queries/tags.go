package queries

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/google/uuid"
)

// ListTagsHandler lists all tags.
type ListTagsHandler struct {
	tagRepo domain.TagRepository
}

// NewListTagsHandler creates a new ListTagsHandler.
func NewListTagsHandler(tagRepo domain.TagRepository) *ListTagsHandler {
	return &ListTagsHandler{tagRepo: tagRepo}
}

// Handle returns every tag.
func (h *ListTagsHandler) Handle(ctx context.Context) ([]*domain.Tag, error) {
	return h.tagRepo.List(ctx)
}

// GetSessionTagsQuery selects the session whose tags are listed.
type GetSessionTagsQuery struct {
	SessionID uuid.UUID
}

// GetSessionTagsHandler lists a session's tags.
type GetSessionTagsHandler struct {
	tagRepo domain.TagRepository
}

// NewGetSessionTagsHandler creates a new GetSessionTagsHandler.
func NewGetSessionTagsHandler(tagRepo domain.TagRepository) *GetSessionTagsHandler {
	return &GetSessionTagsHandler{tagRepo: tagRepo}
}

// Handle returns the session's tags; an unknown session has none.
func (h *GetSessionTagsHandler) Handle(ctx context.Context, query GetSessionTagsQuery) ([]*domain.Tag, error) {
	return h.tagRepo.FindBySession(ctx, query.SessionID)
}

package queries

import (
	"context"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/google/uuid"
)

// GetSessionQuery contains the parameters for getting a single session.
type GetSessionQuery struct {
	SessionID uuid.UUID
}

// GetSessionHandler handles the GetSessionQuery.
type GetSessionHandler struct {
	sessionRepo domain.SessionRepository
}

// NewGetSessionHandler creates a new GetSessionHandler.
func NewGetSessionHandler(sessionRepo domain.SessionRepository) *GetSessionHandler {
	return &GetSessionHandler{sessionRepo: sessionRepo}
}

// Handle executes the GetSessionQuery.
func (h *GetSessionHandler) Handle(ctx context.Context, query GetSessionQuery) (*SessionDTO, error) {
	session, err := h.sessionRepo.FindByID(ctx, query.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}

	dto := ToSessionDTO(session)
	return &dto, nil
}

package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/google/uuid"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListSessionsQuery contains the parameters for listing sessions.
type ListSessionsQuery struct {
	Limit         int
	Offset        int
	From          *time.Time
	To            *time.Time
	TagID         *uuid.UUID
	CompletedOnly bool
}

// ListSessionsHandler handles the ListSessionsQuery.
type ListSessionsHandler struct {
	sessionRepo domain.SessionRepository
}

// NewListSessionsHandler creates a new ListSessionsHandler.
func NewListSessionsHandler(sessionRepo domain.SessionRepository) *ListSessionsHandler {
	return &ListSessionsHandler{sessionRepo: sessionRepo}
}

// Handle executes the ListSessionsQuery, most recent first.
func (h *ListSessionsHandler) Handle(ctx context.Context, query ListSessionsQuery) ([]SessionDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	sessions, err := h.sessionRepo.List(ctx, domain.SessionFilter{
		From:          query.From,
		To:            query.To,
		TagID:         query.TagID,
		CompletedOnly: query.CompletedOnly,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, ToSessionDTO(s))
	}
	return dtos, nil
}

// ParseTimeBound parses an ISO-8601 date or date-time filter value. Date-only
// values resolve to the start of that day in loc, or to its last instant when
// endOfDay is set, so date ranges are inclusive on both ends.
func ParseTimeBound(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or an ISO-8601 date-time", value)
	}
	if endOfDay {
		return d.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return d, nil
}

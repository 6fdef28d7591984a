package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/mindful/internal/practice/application/commands"
	"github.com/felixgeelhaar/mindful/internal/practice/application/queries"
)

type sessionLogInput struct {
	Minutes    int    `json:"minutes" jsonschema:"required"`
	StartedAt  string `json:"started_at,omitempty"`
	VisualType string `json:"visual_type,omitempty"`
	MoodBefore string `json:"mood_before,omitempty"`
	MoodAfter  string `json:"mood_after,omitempty"`
	Note       string `json:"note,omitempty"`
}

type sessionListInput struct {
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
	FromDate      string `json:"from_date,omitempty"`
	ToDate        string `json:"to_date,omitempty"`
	CompletedOnly bool   `json:"completed_only,omitempty"`
}

type sessionIDInput struct {
	SessionID string `json:"session_id" jsonschema:"required"`
}

func registerSessionTools(srv *mcp.Server, t *tools) {
	srv.Tool("session.log").
		Description("Record a completed meditation session").
		Handler(t.sessionLog)

	srv.Tool("session.list").
		Description("List sessions, most recent first").
		Handler(t.sessionList)

	srv.Tool("session.get").
		Description("Get a session by id").
		Handler(t.sessionGet)
}

func (t *tools) sessionLog(ctx context.Context, input sessionLogInput) (*queries.SessionDTO, error) {
	if input.Minutes <= 0 {
		return nil, errors.New("minutes must be positive")
	}
	duration := time.Duration(input.Minutes) * time.Minute
	startedAt := time.Now().Add(-duration)
	if input.StartedAt != "" {
		parsed, err := queries.ParseTimeBound(input.StartedAt, t.c.Config.Location(), false)
		if err != nil {
			return nil, err
		}
		startedAt = parsed
	}

	result, err := t.c.LogSessionHandler.Handle(ctx, commands.LogSessionCommand{
		StartedAt:       startedAt,
		DurationSeconds: int(duration / time.Second),
		VisualType:      optionalString(input.VisualType),
		MoodBefore:      optionalString(input.MoodBefore),
		MoodAfter:       optionalString(input.MoodAfter),
		Note:            optionalString(input.Note),
	})
	if err != nil {
		return nil, err
	}
	t.flush(ctx)

	return t.c.GetSessionHandler.Handle(ctx, queries.GetSessionQuery{SessionID: result.SessionID})
}

func (t *tools) sessionList(ctx context.Context, input sessionListInput) ([]queries.SessionDTO, error) {
	loc := t.c.Config.Location()
	from, err := parseOptionalBound(input.FromDate, loc, false)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalBound(input.ToDate, loc, true)
	if err != nil {
		return nil, err
	}
	return t.c.ListSessionsHandler.Handle(ctx, queries.ListSessionsQuery{
		Limit:         input.Limit,
		Offset:        input.Offset,
		From:          from,
		To:            to,
		CompletedOnly: input.CompletedOnly,
	})
}

func (t *tools) sessionGet(ctx context.Context, input sessionIDInput) (*queries.SessionDTO, error) {
	id, err := parseUUID(input.SessionID)
	if err != nil {
		return nil, err
	}
	return t.c.GetSessionHandler.Handle(ctx, queries.GetSessionQuery{SessionID: id})
}

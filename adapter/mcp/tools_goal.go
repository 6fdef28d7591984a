package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/goals/application/commands"
	"github.com/felixgeelhaar/mindful/internal/goals/application/queries"
)

type goalCreateInput struct {
	GoalType    string `json:"goal_type" jsonschema:"required"`
	TargetValue int    `json:"target_value" jsonschema:"required"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

type goalListInput struct {
	IncludeInactive bool `json:"include_inactive,omitempty"`
}

func registerGoalTools(srv *mcp.Server, t *tools) {
	srv.Tool("goals.progress").
		Description("Progress toward every active goal in the current day or week").
		Handler(t.goalsProgress)

	srv.Tool("goals.list").
		Description("List goals").
		Handler(t.goalsList)

	srv.Tool("goals.create").
		Description("Create a daily or weekly minutes or sessions goal").
		Handler(t.goalsCreate)
}

func (t *tools) goalsProgress(ctx context.Context, _ emptyInput) ([]analytics.GoalProgress, error) {
	return t.c.Stats.GoalProgress(ctx)
}

func (t *tools) goalsList(ctx context.Context, input goalListInput) ([]queries.GoalDTO, error) {
	return t.c.ListGoalsHandler.Handle(ctx, queries.ListGoalsQuery{ActiveOnly: !input.IncludeInactive})
}

func (t *tools) goalsCreate(ctx context.Context, input goalCreateInput) (*queries.GoalDTO, error) {
	start, err := parseOptionalDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	result, err := t.c.CreateGoalHandler.Handle(ctx, commands.CreateGoalCommand{
		GoalType:    input.GoalType,
		TargetValue: input.TargetValue,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return nil, err
	}
	t.flush(ctx)
	return t.c.GetGoalHandler.Handle(ctx, queries.GetGoalQuery{GoalID: result.GoalID})
}

func parseOptionalDate(value string) (*analytics.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := analytics.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

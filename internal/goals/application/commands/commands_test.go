package commands

import (
	"context"
	"testing"
	"time"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/goals/domain"
	"github.com/felixgeelhaar/mindful/internal/goals/infrastructure/persistence"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	goals  *persistence.GoalRepository
	outbox *outbox.SQLRepository
	uow    *database.UnitOfWork
}

func newFixture(t *testing.T) fixture {
	conn := dbtest.NewSQLite(t)
	return fixture{
		goals:  persistence.NewGoalRepository(conn),
		outbox: outbox.NewSQLRepository(conn),
		uow:    database.NewUnitOfWork(conn),
	}
}

func (f fixture) routingKeys(t *testing.T) []string {
	msgs, err := f.outbox.GetUnpublished(context.Background(), 100)
	require.NoError(t, err)
	keys := make([]string, 0, len(msgs))
	for _, m := range msgs {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}

func ptr[T any](v T) *T { return &v }

func TestGoalCommands_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	create := NewCreateGoalHandler(f.goals, f.outbox, f.uow, analytics.NewCalendar(time.UTC))
	create.now = func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }

	result, err := create.Handle(ctx, CreateGoalCommand{GoalType: "weekly_minutes", TargetValue: 150})
	require.NoError(t, err)

	goal, err := f.goals.FindByID(ctx, result.GoalID)
	require.NoError(t, err)
	require.NotNil(t, goal)
	assert.Equal(t, analytics.Date{Year: 2024, Month: time.March, Day: 15}, goal.StartDate())

	err = NewUpdateGoalHandler(f.goals, f.outbox, f.uow).Handle(ctx, UpdateGoalCommand{
		GoalID: result.GoalID,
		Patch:  domain.GoalPatch{TargetValue: ptr(90)},
	})
	require.NoError(t, err)

	goal, err = f.goals.FindByID(ctx, result.GoalID)
	require.NoError(t, err)
	assert.Equal(t, 90, goal.TargetValue())

	require.NoError(t, NewDeleteGoalHandler(f.goals, f.outbox, f.uow).Handle(ctx, DeleteGoalCommand{GoalID: result.GoalID}))

	goal, err = f.goals.FindByID(ctx, result.GoalID)
	require.NoError(t, err)
	assert.Nil(t, goal)

	assert.Equal(t, []string{
		domain.RoutingKeyGoalCreated,
		domain.RoutingKeyGoalUpdated,
		domain.RoutingKeyGoalDeleted,
	}, f.routingKeys(t))
}

func TestCreateGoalHandler_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	handler := NewCreateGoalHandler(f.goals, f.outbox, f.uow, analytics.NewCalendar(time.UTC))

	_, err := handler.Handle(context.Background(), CreateGoalCommand{GoalType: "daily_breaths", TargetValue: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidGoalType)

	_, err = handler.Handle(context.Background(), CreateGoalCommand{GoalType: "daily_minutes", TargetValue: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidTargetValue)

	assert.Empty(t, f.routingKeys(t))
}

func TestGoalCommands_NotFound(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	err := NewUpdateGoalHandler(f.goals, f.outbox, f.uow).Handle(context.Background(), UpdateGoalCommand{
		GoalID: missing,
		Patch:  domain.GoalPatch{IsActive: ptr(false)},
	})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)

	err = NewDeleteGoalHandler(f.goals, f.outbox, f.uow).Handle(context.Background(), DeleteGoalCommand{GoalID: missing})
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestUpdateGoalHandler_InvalidPatchLeavesGoalUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := NewCreateGoalHandler(f.goals, f.outbox, f.uow, analytics.NewCalendar(time.UTC)).
		Handle(ctx, CreateGoalCommand{GoalType: "daily_sessions", TargetValue: 2})
	require.NoError(t, err)

	err = NewUpdateGoalHandler(f.goals, f.outbox, f.uow).Handle(ctx, UpdateGoalCommand{
		GoalID: result.GoalID,
		Patch:  domain.GoalPatch{TargetValue: ptr(-3)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTargetValue)

	goal, err := f.goals.FindByID(ctx, result.GoalID)
	require.NoError(t, err)
	assert.Equal(t, 2, goal.TargetValue())
	assert.Equal(t, []string{domain.RoutingKeyGoalCreated}, f.routingKeys(t))
}

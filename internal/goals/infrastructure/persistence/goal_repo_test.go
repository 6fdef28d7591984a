package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analytics "github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/goals/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
)

var utc = analytics.NewCalendar(time.UTC)

func ptr[T any](v T) *T { return &v }

func newGoal(t *testing.T, goalType analytics.GoalType, target int, createdAt time.Time) *domain.Goal {
	t.Helper()
	g, err := domain.NewGoal(goalType, target, analytics.Date{}, nil, utc, createdAt)
	require.NoError(t, err)
	return g
}

func TestGoalRepository_SaveFindUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewGoalRepository(dbtest.NewSQLite(t))

	g := newGoal(t, analytics.GoalTypeDailyMinutes, 20, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, g))

	found, err := repo.FindByID(ctx, g.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, g.Snapshot(), found.Snapshot())
	assert.Equal(t, analytics.Date{Year: 2024, Month: time.March, Day: 15}, found.StartDate())

	end := analytics.Date{Year: 2024, Month: time.April, Day: 30}
	require.NoError(t, found.Apply(domain.GoalPatch{TargetValue: ptr(30), EndDate: &end, IsActive: ptr(false)}))
	require.NoError(t, repo.Save(ctx, found))

	updated, err := repo.FindByID(ctx, g.ID())
	require.NoError(t, err)
	assert.Equal(t, 30, updated.TargetValue())
	assert.Equal(t, &end, updated.EndDate())
	assert.False(t, updated.IsActive())
}

func TestGoalRepository_FindByID_Missing(t *testing.T) {
	repo := NewGoalRepository(dbtest.NewSQLite(t))

	found, err := repo.FindByID(context.Background(), newGoal(t, analytics.GoalTypeDailySessions, 1, time.Now()).ID())

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGoalRepository_ListAndActiveDefinitions(t *testing.T) {
	ctx := context.Background()
	repo := NewGoalRepository(dbtest.NewSQLite(t))

	older := newGoal(t, analytics.GoalTypeWeeklyMinutes, 150, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
	newer := newGoal(t, analytics.GoalTypeDailySessions, 2, time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	inactive := newGoal(t, analytics.GoalTypeDailyMinutes, 10, time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, inactive.Apply(domain.GoalPatch{IsActive: ptr(false)}))
	for _, g := range []*domain.Goal{older, newer, inactive} {
		require.NoError(t, repo.Save(ctx, g))
	}

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newer.ID(), all[0].ID())
	assert.Equal(t, inactive.ID(), all[1].ID())
	assert.Equal(t, older.ID(), all[2].ID())

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	defs, err := repo.ActiveDefinitions(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, analytics.GoalDefinition{
		ID:          newer.ID(),
		GoalType:    analytics.GoalTypeDailySessions,
		TargetValue: 2,
		IsActive:    true,
	}, defs[0])
}

func TestGoalRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewGoalRepository(dbtest.NewSQLite(t))

	g := newGoal(t, analytics.GoalTypeDailyMinutes, 20, time.Now())
	require.NoError(t, repo.Save(ctx, g))
	require.NoError(t, repo.Delete(ctx, g.ID()))

	found, err := repo.FindByID(ctx, g.ID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGoalRepository_UnknownStoredTypeStillLoads(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := NewGoalRepository(conn)

	g := newGoal(t, analytics.GoalTypeDailyMinutes, 20, time.Now())
	require.NoError(t, repo.Save(ctx, g))
	_, err := conn.Exec(ctx, `UPDATE goals SET goal_type = 'monthly_minutes'`)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, g.ID())
	require.NoError(t, err)
	assert.Equal(t, analytics.GoalType("monthly_minutes"), found.GoalType())
}

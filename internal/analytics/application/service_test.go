package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/analytics/application/queries"
	"github.com/felixgeelhaar/mindful/internal/analytics/domain"
	"github.com/felixgeelhaar/mindful/internal/analytics/infrastructure/cache"
	goals "github.com/felixgeelhaar/mindful/internal/goals/domain"
	goalPersistence "github.com/felixgeelhaar/mindful/internal/goals/infrastructure/persistence"
	practice "github.com/felixgeelhaar/mindful/internal/practice/domain"
	practicePersistence "github.com/felixgeelhaar/mindful/internal/practice/infrastructure/persistence"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

func TestService_OverStoredHistory(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	sessionRepo := practicePersistence.NewSessionRepository(conn)
	goalRepo := goalPersistence.NewGoalRepository(conn)

	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	cal := domain.NewCalendar(seoul)
	// Friday 15 March, 21:00 in Seoul.
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	record := func(startedAt time.Time, actual int, done bool) {
		s, err := practice.NewSession(600, nil, nil, startedAt)
		require.NoError(t, err)
		require.NoError(t, s.Apply(practice.SessionPatch{ActualDurationSeconds: &actual, Completed: &done}))
		require.NoError(t, sessionRepo.Save(ctx, s))
	}
	// 23:30 UTC on the 13th is the morning of the 14th in Seoul.
	record(time.Date(2024, time.March, 13, 23, 30, 0, 0, time.UTC), 900, true)
	record(time.Date(2024, time.March, 15, 1, 0, 0, 0, time.UTC), 600, true)
	record(time.Date(2024, time.March, 15, 2, 0, 0, 0, time.UTC), 1800, false)

	goal, err := goals.NewGoal(domain.GoalTypeDailyMinutes, 20, domain.Date{}, nil, cal, now)
	require.NoError(t, err)
	require.NoError(t, goalRepo.Save(ctx, goal))

	memCache := cache.NewMemoryCache(time.Minute)
	metrics := observability.NewInMemoryMetrics()
	svc := NewService(queries.Deps{
		Engine:   domain.NewEngine(cal),
		Sessions: sessionRepo,
		Goals:    goalRepo,
		Cache:    memCache,
		Clock:    func() time.Time { return now },
	}, metrics)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{TotalSessions: 2, TotalMinutes: 25, CurrentStreak: 2, LongestStreak: 2}, summary)

	heatmap, err := svc.Heatmap(ctx, queries.GetHeatmapQuery{Days: 30})
	require.NoError(t, err)
	assert.Equal(t, []domain.HeatmapBucket{
		{Date: domain.Date{Year: 2024, Month: time.March, Day: 14}, Minutes: 15, Sessions: 1},
		{Date: domain.Date{Year: 2024, Month: time.March, Day: 15}, Minutes: 10, Sessions: 1},
	}, heatmap)

	progress, err := svc.GoalProgress(ctx)
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, goal.ID(), progress[0].GoalID)
	assert.Equal(t, 10, progress[0].CurrentValue)
	assert.InDelta(t, 50.0, progress[0].ProgressPercent, 0.0001)

	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOperationTotal, observability.T(observability.OperationKey, "stats.summary")))

	assert.NotEmpty(t, memCache.Keys())
	require.NoError(t, svc.Invalidate(ctx))
	assert.Empty(t, memCache.Keys())
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/practice/domain"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
)

func ptr[T any](v T) *T { return &v }

func day(d, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
}

func saveSession(t *testing.T, repo *SessionRepository, startedAt time.Time, actual *int, completed bool) *domain.Session {
	t.Helper()
	s, err := domain.NewSession(600, ptr("aurora"), nil, startedAt)
	require.NoError(t, err)
	if completed || actual != nil {
		require.NoError(t, s.Apply(domain.SessionPatch{ActualDurationSeconds: actual, Completed: ptr(completed)}))
	}
	require.NoError(t, repo.Save(context.Background(), s))
	return s
}

func TestSessionRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(dbtest.NewSQLite(t))

	s, err := domain.NewSession(600, ptr("aurora"), ptr("singing-bowl"), day(15, 7))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, s.Snapshot(), found.Snapshot())

	ended := day(15, 7).Add(9 * time.Minute)
	require.NoError(t, found.Apply(domain.SessionPatch{
		EndedAt:               &ended,
		ActualDurationSeconds: ptr(540),
		Completed:             ptr(true),
		MoodAfter:             ptr("peaceful"),
		Note:                  ptr("birdsong"),
	}))
	require.NoError(t, repo.Save(ctx, found))

	updated, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted())
	assert.Equal(t, 540, *updated.ActualDurationSeconds())
	assert.Equal(t, "peaceful", *updated.MoodAfter())
	assert.Equal(t, "birdsong", *updated.Note())
	assert.True(t, ended.Equal(*updated.EndedAt()))
	assert.Nil(t, updated.MoodBefore())
}

func TestSessionRepository_FindByID_Missing(t *testing.T) {
	repo := NewSessionRepository(dbtest.NewSQLite(t))

	found, err := repo.FindByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestSessionRepository_List(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := NewSessionRepository(conn)
	tags := NewTagRepository(conn)

	oldest := saveSession(t, repo, day(10, 7), ptr(600), true)
	middle := saveSession(t, repo, day(12, 7), nil, false)
	newest := saveSession(t, repo, day(14, 7), ptr(300), true)

	tag, err := domain.NewTag("저녁", "Evening", "", false)
	require.NoError(t, err)
	require.NoError(t, tags.Save(ctx, tag))
	require.NoError(t, tags.ReplaceSessionTags(ctx, oldest.ID(), []uuid.UUID{tag.ID}))

	ids := func(sessions []*domain.Session) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(sessions))
		for _, s := range sessions {
			out = append(out, s.ID())
		}
		return out
	}

	tests := []struct {
		name   string
		filter domain.SessionFilter
		want   []uuid.UUID
	}{
		{"all newest first", domain.SessionFilter{}, []uuid.UUID{newest.ID(), middle.ID(), oldest.ID()}},
		{"completed only", domain.SessionFilter{CompletedOnly: true}, []uuid.UUID{newest.ID(), oldest.ID()}},
		{"from inclusive", domain.SessionFilter{From: ptr(day(12, 7))}, []uuid.UUID{newest.ID(), middle.ID()}},
		{"to inclusive", domain.SessionFilter{To: ptr(day(12, 7))}, []uuid.UUID{middle.ID(), oldest.ID()}},
		{"by tag", domain.SessionFilter{TagID: &tag.ID}, []uuid.UUID{oldest.ID()}},
		{"unknown tag", domain.SessionFilter{TagID: ptr(uuid.New())}, []uuid.UUID{}},
		{"limit and offset", domain.SessionFilter{Limit: 1, Offset: 1}, []uuid.UUID{middle.ID()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := NewSessionRepository(conn)
	tags := NewTagRepository(conn)

	s := saveSession(t, repo, day(10, 7), ptr(600), true)
	tag, err := domain.NewTag("아침", "Morning", "", true)
	require.NoError(t, err)
	require.NoError(t, tags.Save(ctx, tag))
	require.NoError(t, tags.ReplaceSessionTags(ctx, s.ID(), []uuid.UUID{tag.ID}))

	require.NoError(t, repo.Delete(ctx, s.ID()))

	found, err := repo.FindByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	attached, err := tags.FindBySession(ctx, s.ID())
	require.NoError(t, err)
	assert.Empty(t, attached)
}

func TestSessionRepository_CompletedFacts(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(dbtest.NewSQLite(t))

	saveSession(t, repo, day(10, 7), ptr(600), true)
	saveSession(t, repo, day(12, 7), ptr(900), false)
	saveSession(t, repo, day(14, 7), nil, true)

	all, err := repo.CompletedFacts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, f := range all {
		assert.True(t, f.Completed)
		assert.Equal(t, 600, f.PlannedDurationSeconds)
	}

	recent, err := repo.CompletedFacts(ctx, ptr(day(13, 0)))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, day(14, 7).Equal(recent[0].StartedAt))
	assert.Nil(t, recent[0].ActualDurationSeconds)
}

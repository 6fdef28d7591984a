package outbox_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/outbox"
)

func newStoredMessage(routingKey string) *outbox.Message {
	msg := createTestMessage(routingKey)
	msg.EventID = uuid.New()
	msg.Metadata = json.RawMessage(`{"CorrelationID":"00000000-0000-0000-0000-000000000000"}`)
	return msg
}

func TestSQLRepository_SaveAndGetUnpublished(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(dbtest.NewSQLite(t))

	first := newStoredMessage("practice.session.recorded")
	first.CreatedAt = time.Now().Add(-time.Minute)
	second := newStoredMessage("practice.session.completed")

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{second}))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.EventID, pending[0].EventID)
	assert.Equal(t, "practice.session.completed", pending[1].RoutingKey)
	assert.JSONEq(t, string(second.Payload), string(pending[1].Payload))
	assert.Equal(t, second.AggregateID, pending[1].AggregateID)
	assert.WithinDuration(t, second.CreatedAt, pending[1].CreatedAt, time.Millisecond)
}

func TestSQLRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(dbtest.NewSQLite(t))

	published := newStoredMessage("a")
	failed := newStoredMessage("b")
	dead := newStoredMessage("c")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{published, failed, dead}))

	require.NoError(t, repo.MarkPublished(ctx, published.ID))
	require.NoError(t, repo.MarkFailed(ctx, failed.ID, "broker down", time.Now().Add(-time.Second)))
	require.NoError(t, repo.MarkDead(ctx, dead.ID, "max retries exceeded"))

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, failed.ID, pending[0].ID)
	assert.Equal(t, 1, pending[0].RetryCount)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "broker down", *pending[0].LastError)
}

func TestSQLRepository_FutureRetryIsHeldBack(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(dbtest.NewSQLite(t))

	msg := newStoredMessage("practice.session.completed")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.MarkFailed(ctx, msg.ID, "timeout", time.Now().Add(time.Hour)))

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSQLRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := outbox.NewSQLRepository(conn)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, []*outbox.Message{newStoredMessage("x")}))
	require.NoError(t, uow.Rollback(txCtx))

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSQLRepository_DeleteOld(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.NewSQLite(t)
	repo := outbox.NewSQLRepository(conn)

	msg := newStoredMessage("practice.session.completed")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.MarkPublished(ctx, msg.ID))

	deleted, err := repo.DeleteOld(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	old := database.FormatTime(time.Now().Add(-30 * 24 * time.Hour))
	_, err = conn.Exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`, old, msg.ID)
	require.NoError(t, err)

	deleted, err = repo.DeleteOld(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

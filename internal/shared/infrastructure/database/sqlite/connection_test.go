package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/mindful/internal/shared/infrastructure/database"
)

func open(t *testing.T) database.Connection {
	t.Helper()
	conn, err := database.NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "nested", "mindful.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), `CREATE TABLE moods (id TEXT PRIMARY KEY, label TEXT NOT NULL)`)
	require.NoError(t, err)
	return conn
}

func TestNewConnection_RegisteredAndMigratable(t *testing.T) {
	conn := open(t)

	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.NoError(t, conn.Ping(context.Background()))

	var mode string
	require.NoError(t, conn.QueryRow(context.Background(), `PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, conn.QueryRow(context.Background(), `PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := open(t)

	res, err := conn.Exec(ctx, `INSERT INTO moods (id, label) VALUES (?, ?), (?, ?)`, "a", "calm", "b", "restless")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err := conn.Query(ctx, `SELECT label FROM moods ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		require.NoError(t, rows.Scan(&l))
		labels = append(labels, l)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"calm", "restless"}, labels)

	err = conn.QueryRow(ctx, `SELECT label FROM moods WHERE id = ?`, "zzz").Scan(new(string))
	assert.True(t, database.IsNoRows(err))
}

func TestConnection_UnitOfWork(t *testing.T) {
	ctx := context.Background()
	conn := open(t)
	uow := database.NewUnitOfWork(conn)
	count := func() int {
		var n int
		require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM moods`).Scan(&n))
		return n
	}

	t.Run("commit persists", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO moods VALUES ('c', 'grateful')`)
		require.NoError(t, err)
		require.NoError(t, uow.Commit(txCtx))
		assert.Equal(t, 1, count())
	})

	t.Run("rollback discards", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO moods VALUES ('d', 'tired')`)
		require.NoError(t, err)
		require.NoError(t, uow.Rollback(txCtx))
		assert.Equal(t, 1, count())
	})

	t.Run("nested scope defers to the outer one", func(t *testing.T) {
		outer, err := uow.Begin(ctx)
		require.NoError(t, err)
		inner, err := uow.Begin(outer)
		require.NoError(t, err)
		assert.Same(t, database.TxFromContext(outer), database.TxFromContext(inner))

		_, err = database.ExecutorFromContext(inner, conn).Exec(inner, `INSERT INTO moods VALUES ('e', 'focused')`)
		require.NoError(t, err)
		require.NoError(t, uow.Commit(inner))
		require.NoError(t, uow.Rollback(outer))
		assert.Equal(t, 1, count())
	})

	t.Run("commit without begin", func(t *testing.T) {
		assert.ErrorIs(t, uow.Commit(ctx), database.ErrNoTransaction)
		assert.Nil(t, database.TxFromContext(ctx))
	})
}

package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	query := `SELECT id FROM sessions WHERE started_at >= ? AND notes <> '?' AND completed = ?`

	assert.Equal(t, query, Rebind(DriverSQLite, query))
	assert.Equal(t,
		`SELECT id FROM sessions WHERE started_at >= $1 AND notes <> '?' AND completed = $2`,
		Rebind(DriverPostgres, query),
	)
	assert.Equal(t, "SELECT 1", Rebind(DriverPostgres, "SELECT 1"))
}

func TestTimestampRoundTrip(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	ts := time.Date(2024, time.March, 15, 7, 30, 12, 345678000, berlin)

	stored := FormatTime(ts)
	assert.Equal(t, "2024-03-15T06:30:12.345678Z", stored)

	parsed, err := ParseTime(stored)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	legacy, err := ParseTime("2024-03-15T06:30:12Z")
	require.NoError(t, err)
	assert.Equal(t, 12, legacy.Second())

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestNullTime(t *testing.T) {
	assert.False(t, NullTime(nil).Valid)

	ts := time.Date(2024, time.March, 15, 6, 0, 0, 0, time.UTC)
	ns := NullTime(&ts)
	require.True(t, ns.Valid)

	back, err := ParseNullTime(ns)
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.True(t, ts.Equal(*back))

	none, err := ParseNullTime(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, none)
}

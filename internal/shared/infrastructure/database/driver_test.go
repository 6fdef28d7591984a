package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDriver(t *testing.T) {
	cases := map[string]Driver{
		"":                                 DriverSQLite,
		"postgres://u:p@localhost/mindful": DriverPostgres,
		"postgresql://localhost/mindful":   DriverPostgres,
		"sqlite:///var/lib/mindful.db":     DriverSQLite,
		"file:mindful.db?cache=shared":     DriverSQLite,
		"/home/me/.mindful/mindful.db":     DriverSQLite,
		"data/mindful.sqlite":              DriverSQLite,
		"data/mindful.sqlite3":             DriverSQLite,
		"host=localhost dbname=mindful":    DriverPostgres,
	}
	for url, want := range cases {
		assert.Equal(t, want, DetectDriver(url), url)
	}
}

func TestNewConnection_UnknownDriver(t *testing.T) {
	_, err := NewConnection(context.Background(), Config{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"oracle"`)
}

func TestNewConnection_DetectsRegisteredDriver(t *testing.T) {
	var got Config
	Register("test", func(_ context.Context, cfg Config) (Connection, error) {
		got = cfg
		return nil, nil
	})
	t.Cleanup(func() {
		openersMu.Lock()
		delete(openers, "test")
		openersMu.Unlock()
	})

	_, err := NewConnection(context.Background(), Config{Driver: "test", URL: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", got.URL)
}

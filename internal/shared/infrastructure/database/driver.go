package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Driver names a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DetectDriver infers the backend from a connection string. An empty URL
// selects SQLite so the CLI works without configuration; anything that is
// not recognizably SQLite is treated as PostgreSQL.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "sqlite://"), strings.HasPrefix(url, "file:"):
		return DriverSQLite
	}
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(url, ext) {
			return DriverSQLite
		}
	}
	return DriverPostgres
}

// Config selects and configures a backend.
type Config struct {
	// Driver may be empty or "auto" to detect from URL.
	Driver     Driver
	URL        string
	SQLitePath string
	MaxConns   int
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var (
	openersMu sync.RWMutex
	openers   = map[Driver]Opener{}
)

// Register makes a driver available to NewConnection. Driver packages call
// it from init, so importing them is enough to enable the backend.
func Register(d Driver, open Opener) {
	openersMu.Lock()
	defer openersMu.Unlock()
	openers[d] = open
}

// NewConnection opens a connection with the registered driver.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	d := cfg.Driver
	if d == "" || d == "auto" {
		d = DetectDriver(cfg.URL)
	}

	openersMu.RLock()
	open, ok := openers[d]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", d)
	}
	return open(ctx, cfg)
}

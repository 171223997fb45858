// Package persistence wraps the embedded relational store behind a
// single Save capability, as the Persistence Gateway (spec §4.1).
package persistence

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"
)

// registerOnce guards the sql.Register call: the database/sql driver
// registry panics on a duplicate name, but there is no reason to limit
// a process to a single open database, so only the registration -- not
// the connection itself -- is memoized.
var registerOnce sync.Once

// Gateway serializes all access to the embedded store behind a single
// mutex. SQLite does not benefit from concurrent writers, so every
// supervisor that persists a record shares one connection and one lock,
// the same trade-off the reference backend makes for its own sqlite path.
type Gateway struct {
	mu sync.Mutex
	db *sqlx.DB
}

// Connect opens the sqlite database at path. Each call returns its own
// Gateway; the caller is expected to share it the way main does.
func Connect(path string) (*Gateway, error) {
	registerOnce.Do(func() {
		sql.Register("sqlite3WithHooks", sqlhooks.Wrap(&sqlite3.SQLiteDriver{}, &queryHooks{}))
	})

	db, err := sqlx.Open("sqlite3WithHooks", fmt.Sprintf("%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// sqlite does not multiplex writers across connections; avoid
	// contention by capping the pool to one, as the reference
	// backend's dbConnection.go does.
	db.SetMaxOpenConns(1)
	return &Gateway{db: db}, nil
}

// Close releases the underlying database handle.
func (g *Gateway) Close() error {
	return g.db.Close()
}

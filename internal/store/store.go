// Package store persists table snapshots. Every backend stores the JSON
// form of game.SessionState keyed by game ID.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lox/pokerbirds/internal/game"
)

// Store is a game.Store that holds resources.
type Store interface {
	game.Store
	Close() error
}

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the backend named by driver. dsn is a directory for "file",
// a database path for "sqlite" and a connection string for "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverFile:
		return NewFile(dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func encode(st *game.SessionState) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("encode state: nil state")
	}
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*game.SessionState, error) {
	var st game.SessionState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lox/pokerbirds/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores snapshots in a single-file database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and creates the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS game_states (
			game_id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			hand_number INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load implements game.Store.
func (s *SQLite) Load(ctx context.Context, gameID string) (*game.SessionState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM game_states WHERE game_id = ?", gameID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return decode([]byte(data))
}

// Save implements game.Store.
func (s *SQLite) Save(ctx context.Context, gameID string, st *game.SessionState) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_states (game_id, state, hand_number, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(game_id) DO UPDATE SET
			state = excluded.state,
			hand_number = excluded.hand_number,
			updated_at = CURRENT_TIMESTAMP
	`, gameID, string(data), st.HandNumber)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

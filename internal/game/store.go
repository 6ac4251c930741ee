package game

import "context"

// Store persists session snapshots keyed by game ID.
type Store interface {
	// Load returns the latest snapshot, or ErrNotFound.
	Load(ctx context.Context, gameID string) (*SessionState, error)
	// Save replaces the snapshot for gameID.
	Save(ctx context.Context, gameID string, state *SessionState) error
}

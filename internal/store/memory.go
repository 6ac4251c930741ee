package store

import (
	"context"
	"sync"

	"github.com/lox/pokerbirds/internal/game"
)

// Memory keeps encoded snapshots in a map. It is used by tests and by
// servers that do not need games to survive a restart.
type Memory struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string][]byte)}
}

// Load implements game.Store.
func (m *Memory) Load(_ context.Context, gameID string) (*game.SessionState, error) {
	m.mu.RLock()
	data, ok := m.states[gameID]
	m.mu.RUnlock()
	if !ok {
		return nil, game.ErrNotFound
	}
	return decode(data)
}

// Save implements game.Store.
func (m *Memory) Save(_ context.Context, gameID string, st *game.SessionState) error {
	data, err := encode(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.states[gameID] = data
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

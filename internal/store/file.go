package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lox/pokerbirds/internal/fileutil"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/gameid"
)

// File stores one <gameID>.json document per game in a directory.
type File struct {
	dir string
}

// NewFile creates dir if it does not exist.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("file store: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(gameID string) (string, error) {
	// IDs become file names, so only accept generated ones.
	if err := gameid.Validate(gameID); err != nil {
		return "", fmt.Errorf("%w: %v", game.ErrNotFound, err)
	}
	return filepath.Join(f.dir, gameID+".json"), nil
}

// Load implements game.Store.
func (f *File) Load(_ context.Context, gameID string) (*game.SessionState, error) {
	path, err := f.path(gameID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, game.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return decode(data)
}

// Save implements game.Store.
func (f *File) Save(_ context.Context, gameID string, st *game.SessionState) error {
	path, err := f.path(gameID)
	if err != nil {
		return err
	}
	data, err := encode(st)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o600)
}

// Close is a no-op.
func (f *File) Close() error { return nil }

package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/pokerbirds/internal/config"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/gameid"
	"github.com/lox/pokerbirds/internal/phh"
	"github.com/lox/pokerbirds/internal/randutil"
	"github.com/lox/pokerbirds/internal/tui"
)

// PlayCmd runs a local hot-seat table in the terminal.
type PlayCmd struct {
	Seats          int    `default:"2" help:"Number of seats (2-10)"`
	BuyIn          string `default:"20" help:"Buy-in per seat"`
	SmallBlind     string `default:"0.10" help:"Small blind"`
	BigBlind       string `default:"0.20" help:"Big blind"`
	Seed           *int64 `help:"Deterministic RNG seed (optional)"`
	HandHistoryDir string `env:"POKERBIRDS_HAND_HISTORY_DIR" help:"Write PHH hand histories to this directory"`
	LogFile        string `help:"Write debug logs to this file"`
}

func (c *PlayCmd) Run() error {
	preset := config.TableConfig{Name: "local", Seats: c.Seats, BuyIn: c.BuyIn, SmallBlind: c.SmallBlind, BigBlind: c.BigBlind}
	cfg, err := preset.GameConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger, err := setupLogger(logOut, "debug")
	if err != nil {
		return err
	}

	seed := int64(0)
	if c.Seed != nil {
		seed = *c.Seed
	} else if seed, err = randutil.Seed(); err != nil {
		return err
	}
	logger.Info("Starting local table", "seed", seed, "seats", cfg.Seats)

	session, err := game.NewSession(cfg, game.WithRand(randutil.New(seed)), game.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []tui.Option{tui.WithLogger(logger)}
	if c.HandHistoryDir != "" {
		w, err := phh.NewWriter(c.HandHistoryDir, phh.WithHoleCards(true), phh.WithLogger(logger))
		if err != nil {
			return err
		}
		id, err := gameid.Generate()
		if err != nil {
			return err
		}
		opts = append(opts, tui.WithHandSink(id, w))
		defer fmt.Fprintf(os.Stderr, "Hand history written to %s\n", w.Path(id))
	}

	_, err = tea.NewProgram(tui.NewModel(session, opts...), tea.WithAltScreen()).Run()
	return err
}


package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/lox/pokerbirds/internal/config"
	"github.com/lox/pokerbirds/internal/phh"
	"github.com/lox/pokerbirds/internal/server"
	"github.com/lox/pokerbirds/internal/store"
	"github.com/lox/pokerbirds/internal/table"
)

// ServerCmd runs the HTTP and WebSocket API. Flags override the config file.
type ServerCmd struct {
	Config         string `default:"pokerbirds.hcl" env:"POKERBIRDS_CONFIG" help:"HCL config file"`
	Addr           string `env:"POKERBIRDS_ADDR" help:"Listen address, overrides the config"`
	LogLevel       string `env:"POKERBIRDS_LOG_LEVEL" help:"Log level, overrides the config"`
	Store          string `env:"POKERBIRDS_STORE" help:"State store driver: memory, file, sqlite or postgres"`
	DSN            string `name:"dsn" env:"POKERBIRDS_DSN" help:"Store location: directory, sqlite path or postgres URL"`
	HandHistoryDir string `env:"POKERBIRDS_HAND_HISTORY_DIR" help:"Write PHH hand histories to this directory"`
	Seed           *int64 `env:"POKERBIRDS_SEED" help:"Deterministic RNG seed (optional)"`
	CreateTables   bool   `help:"Create one game per configured table preset on startup"`
}

func (c *ServerCmd) Run() error {
	cfg, err := c.load()
	if err != nil {
		return err
	}
	logger, err := stderrLogger(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	timeout, err := cfg.Server.Timeout()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Server.Store, cfg.Server.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := []table.Option{
		table.WithLogger(logger),
		table.WithActionTimeout(timeout),
	}
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		opts = append(opts, table.WithSeed(*c.Seed))
	}
	if cfg.Server.HandHistoryDir != "" {
		w, err := phh.NewWriter(cfg.Server.HandHistoryDir,
			phh.WithHoleCards(cfg.Server.IncludeHoleCards),
			phh.WithLogger(logger))
		if err != nil {
			return err
		}
		opts = append(opts, table.WithHandSink(w))
	}
	manager := table.NewManager(st, opts...)
	defer manager.Close()

	if c.CreateTables {
		for _, t := range cfg.Tables {
			gc, err := t.GameConfig()
			if err != nil {
				return fmt.Errorf("table %q: %w", t.Name, err)
			}
			id, _, err := manager.Create(ctx, gc)
			if err != nil {
				return err
			}
			logger.Info("Created table", "name", t.Name, "game_id", id)
		}
	}

	srv := server.New(manager, server.WithLogger(logger))
	logger.Info("Starting pokerbirds server",
		"address", cfg.Server.Addr(),
		"store", cfg.Server.Store,
		"action_timeout", timeout,
		"version", version)

	return srv.ListenAndServe(ctx, cfg.Server.Addr())
}

// load reads the config file and applies flag overrides.
func (c *ServerCmd) load() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Addr != "" {
		host, port, err := splitAddr(c.Addr)
		if err != nil {
			return nil, err
		}
		cfg.Server.Address, cfg.Server.Port = host, port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Store != "" {
		cfg.Server.Store = c.Store
	}
	if c.DSN != "" {
		cfg.Server.DSN = c.DSN
	}
	if c.HandHistoryDir != "" {
		cfg.Server.HandHistoryDir = c.HandHistoryDir
	}
	return cfg, cfg.Validate()
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q", addr)
	}
	return host, port, nil
}

// Package config loads server settings from HCL and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/money"
	"github.com/lox/pokerbirds/internal/store"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
}

// ServerSettings holds process-level settings.
type ServerSettings struct {
	Address          string `hcl:"address,optional"`
	Port             int    `hcl:"port,optional"`
	LogLevel         string `hcl:"log_level,optional"`
	Store            string `hcl:"store,optional"`
	DSN              string `hcl:"dsn,optional"`
	HandHistoryDir   string `hcl:"hand_history_dir,optional"`
	IncludeHoleCards bool   `hcl:"include_hole_cards,optional"`
	ActionTimeout    string `hcl:"action_timeout,optional"`
}

// TableConfig is a named lobby preset. Amounts are decimal strings in
// major units, e.g. "0.50".
type TableConfig struct {
	Name       string `hcl:"name,label"`
	Seats      int    `hcl:"seats,optional"`
	BuyIn      string `hcl:"buy_in"`
	SmallBlind string `hcl:"small_blind"`
	BigBlind   string `hcl:"big_blind"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			Store:    store.DriverMemory,
		},
	}
}

// Load reads filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default().Server
	if c.Server.Address == "" {
		c.Server.Address = def.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.LogLevel
	}
	if c.Server.Store == "" {
		c.Server.Store = def.Store
	}
	for i := range c.Tables {
		if c.Tables[i].Seats == 0 {
			c.Tables[i].Seats = 6
		}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.Server.LogLevel)
	}
	switch c.Server.Store {
	case store.DriverMemory:
	case store.DriverFile, store.DriverSQLite, store.DriverPostgres:
		if c.Server.DSN == "" {
			return fmt.Errorf("store %q requires dsn", c.Server.Store)
		}
	default:
		return fmt.Errorf("unknown store %q", c.Server.Store)
	}
	if _, err := c.Server.Timeout(); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("duplicate table %q", t.Name)
		}
		seen[t.Name] = true
		if _, err := t.GameConfig(); err != nil {
			return fmt.Errorf("table %q: %w", t.Name, err)
		}
	}
	return nil
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// Timeout parses the action timeout; empty means disabled.
func (s ServerSettings) Timeout() (time.Duration, error) {
	if s.ActionTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.ActionTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid action_timeout %q", s.ActionTimeout)
	}
	return d, nil
}

// GameConfig converts the preset to engine settings in minor units.
func (t TableConfig) GameConfig() (game.Config, error) {
	buyIn, err := money.ParseCents(t.BuyIn)
	if err != nil {
		return game.Config{}, fmt.Errorf("buy_in: %w", err)
	}
	sb, err := money.ParseCents(t.SmallBlind)
	if err != nil {
		return game.Config{}, fmt.Errorf("small_blind: %w", err)
	}
	bb, err := money.ParseCents(t.BigBlind)
	if err != nil {
		return game.Config{}, fmt.Errorf("big_blind: %w", err)
	}
	cfg := game.Config{Seats: t.Seats, BuyIn: buyIn, SmallBlind: sb, BigBlind: bb}
	return cfg, cfg.Validate()
}

// LoadEnv reads KEY=value pairs from the given files (".env" when none are
// named) into the process environment. Missing files are ignored and
// variables already set take precedence.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

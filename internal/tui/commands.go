package tui

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/money"
)

// commands accepted at the prompt, in help order.
var commands = []string{"start", "check", "call", "raise", "fold", "end", "reset", "help", "quit"}

const helpText = "Commands: start, check, call, raise <amount>, fold, end, reset, help, quit"

// command is a parsed prompt line.
type command struct {
	name   string
	amount int64
}

func parseCommand(input string) (command, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return command{}, fmt.Errorf("type a command, or 'help'")
	}
	cmd := command{name: fields[0]}
	switch cmd.name {
	case "c":
		cmd.name = "call"
	case "k", "x":
		cmd.name = "check"
	case "f":
		cmd.name = "fold"
	case "r", "bet":
		cmd.name = "raise"
	case "q", "exit":
		cmd.name = "quit"
	case "deal":
		cmd.name = "start"
	}

	if cmd.name == "raise" {
		args := fields[1:]
		if len(args) > 0 && args[0] == "to" {
			args = args[1:]
		}
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: raise <amount>")
		}
		amount, err := money.ParseCents(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid amount %q", args[0])
		}
		cmd.amount = amount
		return cmd, nil
	}

	for _, c := range commands {
		if c == cmd.name {
			return cmd, nil
		}
	}
	if s := suggest(cmd.name); s != "" {
		return command{}, fmt.Errorf("unknown command %q, did you mean %q?", cmd.name, s)
	}
	return command{}, fmt.Errorf("unknown command %q", cmd.name)
}

// suggest returns the closest known command within two edits.
func suggest(name string) string {
	best, bestDist := "", 3
	for _, c := range commands {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (c command) actionKind() (game.ActionKind, bool) {
	switch c.name {
	case "check":
		return game.ActionCheck, true
	case "call":
		return game.ActionCall, true
	case "raise":
		return game.ActionRaise, true
	case "fold":
		return game.ActionFold, true
	}
	return "", false
}

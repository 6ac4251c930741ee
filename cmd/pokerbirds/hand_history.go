package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/lox/pokerbirds/internal/money"
	"github.com/lox/pokerbirds/internal/phh"
)

// HandHistoryCmd is the root command for PHH utilities.
type HandHistoryCmd struct {
	Show HandHistoryShowCmd `cmd:"" help:"Summarise the hands in a .phhs file"`
}

// HandHistoryShowCmd prints one line per hand, or the full action list.
type HandHistoryShowCmd struct {
	File    string `arg:"" type:"existingfile" help:"Path to a .phhs file"`
	Actions bool   `help:"Print every action line"`
	Limit   int    `help:"Maximum number of hands to show (0 = all)"`
}

func (cmd *HandHistoryShowCmd) Run() error {
	return cmd.run(os.Stdout)
}

func (cmd *HandHistoryShowCmd) run(w io.Writer) error {
	f, err := os.Open(filepath.Clean(cmd.File))
	if err != nil {
		return err
	}
	defer f.Close()

	hands, err := phh.Decode(f)
	if err != nil {
		return err
	}
	if len(hands) == 0 {
		return fmt.Errorf("no hands found in %s", cmd.File)
	}
	limit := cmd.Limit
	if limit <= 0 || limit > len(hands) {
		limit = len(hands)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, hand := range hands[:limit] {
		fmt.Fprintf(tw, "%s\t%d players\t%s\n", hand.HandID, len(hand.StartingStacks), winners(hand))
		if cmd.Actions {
			for _, a := range hand.Actions {
				fmt.Fprintf(tw, "\t%s\n", a)
			}
		}
	}
	return tw.Flush()
}

func winners(hand phh.HandHistory) string {
	var parts []string
	for i, won := range hand.Winnings {
		if won <= 0 {
			continue
		}
		name := fmt.Sprintf("p%d", i+1)
		if i < len(hand.Players) && hand.Players[i] != "" {
			name = hand.Players[i]
		}
		parts = append(parts, fmt.Sprintf("%s won %s", name, money.FormatCents(won)))
	}
	if len(parts) == 0 {
		return "no winner"
	}
	return strings.Join(parts, ", ")
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/pokerbirds/poker"
)

// EvalCmd prints the best five-card hand from five to seven cards.
type EvalCmd struct {
	Cards []string `arg:"" help:"Cards such as 'As Kd' or 'AsKd7c2h9s'"`
}

func (c *EvalCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *EvalCmd) run(w io.Writer) error {
	cards, err := poker.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}
	rank, best, err := poker.BestHand(cards)
	if err != nil {
		return err
	}
	pretty := make([]string, len(best))
	for i, card := range best {
		pretty[i] = card.Pretty()
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", rank, strings.Join(pretty, " "))
	return err
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lox/pokerbirds/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Server      ServerCmd        `cmd:"" help:"Run the table server"`
	Play        PlayCmd          `cmd:"" help:"Play a hot-seat game in the terminal"`
	Eval        EvalCmd          `cmd:"" help:"Evaluate the best five-card hand"`
	HandHistory HandHistoryCmd   `cmd:"hand-history" help:"Work with PHH hand history files"`
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerbirds"),
		kong.Description("No-limit Texas Hold'em tables over HTTP and WebSocket"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

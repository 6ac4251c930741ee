package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// setupLogger returns a logger at the named level and makes it the default.
func setupLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	log.SetDefault(logger)
	return logger, nil
}

func stderrLogger(level string) (*log.Logger, error) {
	return setupLogger(os.Stderr, level)
}

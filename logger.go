package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger builds the process-wide logger. Debug level also reports callers.
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		ReportCaller:    lvl == log.DebugLevel,
	})
	log.SetDefault(logger)
	return logger, nil
}

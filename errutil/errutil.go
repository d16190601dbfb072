package errutil

import (
	"github.com/charmbracelet/log"
)

// LogError logs non-critical errors with context.
func LogError(logger *log.Logger, context string, err error) {
	if err != nil {
		logger.Error(context, "err", err)
	}
}

// FatalError logs and exits for unrecoverable errors.
func FatalError(logger *log.Logger, context string, err error) {
	logger.Fatal(context, "err", err)
}

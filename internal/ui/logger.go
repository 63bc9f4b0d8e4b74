// Package ui provides terminal UI components and styling for fcat.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// InitLogger initializes the charm logger with default settings.
func InitLogger() {
	InitLoggerTo(os.Stderr)
}

// InitLoggerTo initializes the charm logger to write to w.
func InitLoggerTo(w io.Writer) {
	log.SetOutput(w)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetReportTimestamp(false)
}

// SetDebug enables debug logging.
func SetDebug(enabled bool) {
	if enabled {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// SetQuiet limits logging to warnings and errors, for machine readable output.
// Debug logging wins if both are requested.
func SetQuiet(enabled bool) {
	if enabled && log.GetLevel() > log.DebugLevel {
		log.SetLevel(log.WarnLevel)
	}
}

package app

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"mnemo/pkg/config"
)

// NewLogger creates a *log.Logger based on the provided LogConfig and sets
// it as the default logger.
//
// Format "json" and "logfmt" produce machine-readable output; "text" is the
// colored console format. An unknown level falls back to info.
func NewLogger(cfg config.LogConfig, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	switch strings.ToLower(cfg.Format) {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		ReportCaller:    level == log.DebugLevel,
	})
	log.SetDefault(logger)
	return logger
}

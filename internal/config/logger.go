package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// NewLogger builds the slog logger used across the application, backed by a charmbracelet/log handler.
// format is one of "text" (the default), "json" and "logfmt".
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}
	switch format {
	case "", "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return slog.New(log.NewWithOptions(w, opts)), nil
}

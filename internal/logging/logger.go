package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Format selects how log lines are encoded.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

var std = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "todo",
})

// Default returns the process-wide logger.
func Default() *log.Logger {
	return std
}

// New creates a logger writing to w at the given level ("debug", "info", "warn", "error").
// An empty level means info.
func New(w io.Writer, level string, format Format) (*log.Logger, error) {
	lvl := log.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}

	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "todo",
		Level:           lvl,
	}
	switch format {
	case FormatJSON:
		opts.Formatter = log.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
	}

	return log.NewWithOptions(w, opts), nil
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *log.Logger) {
	if l != nil {
		std = l
	}
}

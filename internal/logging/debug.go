package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var debugLogger = log.NewWithOptions(os.Stderr, log.Options{
	Level:  log.DebugLevel,
	Prefix: "debug",
})

// DebugEnabled returns true if debug mode is enabled via TODO_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TODO_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		debugLogger.Debugf(format, args...)
	}
}

// SetDebugOutput redirects debug output.
func SetDebugOutput(w io.Writer) {
	debugLogger.SetOutput(w)
}

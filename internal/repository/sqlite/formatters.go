package sqlite

import (
	"time"
)

// dbTimeLayout is fixed width so that lexical order of stored values
// matches chronological order.
const dbTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimeForDB formats a time.Time value as a fixed-width UTC RFC3339 string with nanoseconds
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatBoolForDB stores booleans as 0/1 integers.
func FormatBoolForDB(b bool) int {
	if b {
		return 1
	}
	return 0
}

package validation

import (
	"strconv"
	"strings"
)

// Validator provides common validation utilities
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimText trims surrounding whitespace. Nothing else about the text is
// normalized.
func (v *Validator) TrimText(s string) string {
	return strings.TrimSpace(s)
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// ParseTaskID parses a decimal database id. Only ASCII digits are
// accepted: no sign, no surrounding space.
func (v *Validator) ParseTaskID(raw string) (int64, bool) {
	if !isDigits(raw) {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || !v.IsValidTaskID(id) {
		return 0, false
	}
	return id, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseLineIndex parses a 0-based line index. Bounds are checked against
// the list at the time of the operation, not here.
func (v *Validator) ParseLineIndex(raw string) (int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

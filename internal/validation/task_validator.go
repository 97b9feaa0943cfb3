package validation

import (
	apperrors "todo-list/internal/errors"
)

// TaskValidator provides validation for task text and identifiers
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateText checks that text is non-empty once trimmed
func (tv *TaskValidator) ValidateText(field, text string) error {
	if !tv.validator.IsNonEmptyString(text) {
		validationError := NewValidationError()
		validationError.AddRequiredError(field)
		return validationError
	}
	return nil
}

// CleanText returns the trimmed text, or a ValidationError when nothing is left.
func (tv *TaskValidator) CleanText(field, text string) (string, error) {
	if err := tv.ValidateText(field, text); err != nil {
		return "", err
	}
	return tv.validator.TrimText(text), nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ParseTaskID turns a path segment into a task id. A segment that is not a
// positive integer cannot name any task, so it is reported as not found.
func (tv *TaskValidator) ParseTaskID(raw string) (int64, error) {
	id, ok := tv.validator.ParseTaskID(raw)
	if !ok {
		return 0, apperrors.NewNotFoundError("task", raw)
	}
	return id, nil
}

// ParseLineIndex turns a form value into a line index.
func (tv *TaskValidator) ParseLineIndex(field, raw string) (int, error) {
	index, ok := tv.validator.ParseLineIndex(raw)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError(field, raw, "non-negative integer")
		return 0, validationError
	}
	return index, nil
}

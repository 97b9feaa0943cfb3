package cli

import (
	"errors"
	"fmt"

	apperrors "todo-list/internal/errors"
	"todo-list/internal/validation"
)

// ErrorHandler turns service errors into the messages a command prints
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user-facing message of err with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, eh.HandleSimple(err))
}

// HandleSimple returns err reduced to its user-facing message. Field
// validation errors are folded into the application taxonomy first. Plain
// errors pass through untouched.
func (eh *ErrorHandler) HandleSimple(err error) error {
	var validationErr *validation.ValidationError
	if errors.As(err, &validationErr) {
		err = validationErr.AppError()
	}

	if apperrors.IsAppError(err) {
		return errors.New(apperrors.GetUserMessage(err))
	}

	return err
}

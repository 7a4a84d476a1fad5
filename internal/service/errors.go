package service

import "errors"

var ErrNotFound = errors.New("task not found")

// ValidationError reports a missing or malformed field. The message is
// returned to the client as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	msgTitleRequired   = "Field 'title' is required."
	msgTitleEmpty      = "Field 'title' cannot be empty."
	msgPriorityInvalid = "Field 'priority' must be one of High, Mid, Low."
	msgStatusInvalid   = "Invalid status. Must be 'ongoing' or 'completed'."
	msgNothingToUpdate = "No updatable fields provided."
	msgConstraint      = "Task violates a store constraint."
)

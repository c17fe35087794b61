package history

import "errors"

var (
	// ErrInvalidOperation is returned when there is nothing to undo or redo.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrOutOfRange is returned when a history index is outside the log.
	ErrOutOfRange = errors.New("history index out of range")
	// ErrNoPriorState is returned when a history entry has no previous data to restore.
	ErrNoPriorState = errors.New("history entry has no prior state")
	// ErrValidationFailure is returned by schema validation at the caller boundary.
	ErrValidationFailure = errors.New("validation failure")
)

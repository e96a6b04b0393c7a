package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors (e.g., ErrUserNotFound, ErrTaskNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTaskListNotFound indicates that the requested task list does not exist in the store.
	ErrTaskListNotFound = fmt.Errorf("%w: task list", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// Entity-specific "duplicate" errors, split by field so callers can
	// report which field collided.

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrUsernameExists indicates that a user with the given username already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// InvalidReferenceError is returned when a write references an entity that
// does not exist (a dangling foreign key): a task's task list or assigned
// user, or a task list's owner. It carries the offending identifier so the
// caller can report it.
type InvalidReferenceError struct {
	Entity string // The referenced entity type (e.g., "task list", "user")
	ID     int64  // The offending identifier
	Err    error  // Original error, if the violation came from the database
}

// Error implements the error interface for InvalidReferenceError.
func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Entity, e.ID)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *InvalidReferenceError) Unwrap() error {
	return e.Err
}

// NewInvalidReferenceError creates a new InvalidReferenceError.
func NewInvalidReferenceError(entity string, id int64, err error) *InvalidReferenceError {
	return &InvalidReferenceError{
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// HasDependentsError is returned when deleting a task list that still has
// tasks pointing to it. It is distinguished from generic failures so the
// caller can explain the remediation (delete the tasks first).
type HasDependentsError struct {
	TaskListID int64
	Err        error
}

// Error implements the error interface for HasDependentsError.
func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("cannot delete task list %d because it contains tasks", e.TaskListID)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *HasDependentsError) Unwrap() error {
	return e.Err
}

// NewHasDependentsError creates a new HasDependentsError.
func NewHasDependentsError(taskListID int64, err error) *HasDependentsError {
	return &HasDependentsError{
		TaskListID: taskListID,
		Err:        err,
	}
}

// IsInvalidReferenceError checks if the error is an InvalidReferenceError.
func IsInvalidReferenceError(err error) bool {
	var refErr *InvalidReferenceError
	return errors.As(err, &refErr)
}

// IsHasDependentsError checks if the error is a HasDependentsError.
func IsHasDependentsError(err error) bool {
	var depErr *HasDependentsError
	return errors.As(err, &depErr)
}

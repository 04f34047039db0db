// Package errs holds the error taxonomy shared by the engine packages and the
// transports that expose them.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPrecondition is returned when an operation targets an entity in a state
	// that forbids it, e.g. attaching a branch under a deleted note.
	ErrPrecondition = errors.New("precondition failed")
	// ErrTraversalBudget is returned when a graph walk exceeds its work budget.
	ErrTraversalBudget = errors.New("traversal budget exceeded")
	// ErrProtectedSession is returned when protected content is requested
	// while no protected session is open.
	ErrProtectedSession = errors.New("protected session not available")
)

// ValidationError is a recoverable rejection of caller input. The caller can
// retry with a different input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// PreconditionError reports an entity whose state makes the operation
// impossible. No write has happened when it is returned.
type PreconditionError struct {
	Entity  string
	ID      string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Message)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// NotFound builds an error matching ErrNotFound that names the missing entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Each maps onto a distinct process exit code through ExitCode.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStage indicates a stage number outside the catalog range.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrUnitMissing indicates a selected unit's notebook does not exist.
	ErrUnitMissing = errors.New("missing notebook")

	// ErrExecutorFailed indicates the notebook executor exited non-zero
	// or could not be started.
	ErrExecutorFailed = errors.New("notebook execution failed")

	// ErrFilesystem indicates a working directory could not be created.
	ErrFilesystem = errors.New("filesystem error")
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitUnitMissing    = 1
	ExitExecutorFailed = 2
	ExitInvalidInput   = 3
	ExitFilesystem     = 4
)

// ErrorKind classifies a RunError.
type ErrorKind string

// Known error kinds.
const (
	KindUnitMissing    ErrorKind = "missing-unit"
	KindExecutorFailed ErrorKind = "executor-failed"
	KindInvalidInput   ErrorKind = "invalid-argument"
	KindFilesystem     ErrorKind = "filesystem"
)

// RunError is the single error type returned by a pipeline run.
// It carries the unit that caused the failure, when there is one.
type RunError struct {
	Kind ErrorKind
	Unit *Unit
	Err  error
}

// NewRunError wraps err with kind and an optional unit.
func NewRunError(kind ErrorKind, unit *Unit, err error) *RunError {
	return &RunError{Kind: kind, Unit: unit, Err: err}
}

func (e *RunError) Error() string {
	if e.Unit != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Unit.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for this error.
func (e *RunError) ExitCode() int {
	switch e.Kind {
	case KindUnitMissing:
		return ExitUnitMissing
	case KindExecutorFailed:
		return ExitExecutorFailed
	case KindInvalidInput:
		return ExitInvalidInput
	case KindFilesystem:
		return ExitFilesystem
	default:
		return ExitUnitMissing
	}
}

// ExitCode maps any error to the process exit code contract.
// A nil error is ExitOK. Errors without a known sentinel exit with 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.ExitCode()
	}

	switch {
	case errors.Is(err, ErrUnitMissing):
		return ExitUnitMissing
	case errors.Is(err, ErrExecutorFailed):
		return ExitExecutorFailed
	case errors.Is(err, ErrInvalidStage), errors.Is(err, ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, ErrFilesystem):
		return ExitFilesystem
	default:
		return 1
	}
}

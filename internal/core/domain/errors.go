package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown operation or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Selection Errors.

	// ErrIncompleteSelection indicates the requirement rules were asked to run
	// before stream, course, category and year were all chosen.
	ErrIncompleteSelection = errors.New("selection incomplete")

	// ErrInvalidSelection indicates a selection violates its invariants,
	// e.g. a course that does not belong to the chosen stream.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrInvalidTransition indicates a wizard action is not allowed from the current step.
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// Tool Errors.

	// ErrToolBusy indicates another document job is still running.
	ErrToolBusy = errors.New("document tool busy")

	// ErrBlobReleased indicates a produced file was already released from memory.
	ErrBlobReleased = errors.New("output released")
)

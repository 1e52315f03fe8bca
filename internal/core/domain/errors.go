package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStateTransition indicates a lifecycle no-op was
	// requested: enabling an enabled binding or disabling a disabled one.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrUnsupportedSourceType indicates a dataset is not of the
	// provider's import kind.
	ErrUnsupportedSourceType = errors.New("unsupported source type")

	// ErrDispatchFailure indicates the task runner was unreachable or
	// rejected a sync request. Caller-caused errors (ErrNotFound,
	// ErrUnsupportedSourceType) must stay distinguishable from this.
	ErrDispatchFailure = errors.New("dispatch failure")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")
)

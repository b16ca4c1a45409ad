package deal

import "errors"

// Lifecycle and store errors. Callers distinguish "not allowed" (state,
// authorization), "not ready yet" (lock) and "missing" outcomes with
// errors.Is.
var (
	// ErrNotFound is returned when no deal exists for the given id.
	ErrNotFound = errors.New("deal not found")

	// ErrInvalidState is returned when a transition is attempted from a
	// state it is not permitted in. The deal is left unchanged.
	ErrInvalidState = errors.New("invalid deal state for this action")

	// ErrNotSeller is returned when an address other than the deal's seller
	// attempts to cancel it.
	ErrNotSeller = errors.New("only the seller can cancel this deal")

	// ErrLockNotExpired is returned by claim before unlock_at has passed.
	// This is a "not yet" outcome, not a permanent failure.
	ErrLockNotExpired = errors.New("lock period has not ended yet")

	// ErrInvalidInput is returned when create parameters fail validation.
	ErrInvalidInput = errors.New("invalid deal parameters")
)

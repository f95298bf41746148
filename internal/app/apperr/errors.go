package apperr

import "errors"

var (
	// ErrInvalidInput is returned for malformed input: negative amounts,
	// unknown payment methods, missing case references.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced wallet or work unit does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a concurrent update won the race for the
	// same wallet or work unit.
	ErrConflict = errors.New("conflict")

	// ErrDuplicate marks an idempotency short-circuit: the ledger already
	// holds a transaction for this (case, type, payment method) and returns
	// the existing record alongside this error.
	ErrDuplicate = errors.New("duplicate transaction")

	// ErrInsufficientFunds is returned when a withdrawal would consume the
	// security deposit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidState is returned when a lifecycle transition is attempted
	// from a state that does not allow it.
	ErrInvalidState = errors.New("invalid state for transition")

	// ErrNotAssignedVendor is returned when the acting vendor is not the one
	// currently assigned to the work unit.
	ErrNotAssignedVendor = errors.New("actor is not the assigned vendor")

	// ErrUnauthorized is returned when no actor identity is present on the request.
	ErrUnauthorized = errors.New("unauthorized")
)

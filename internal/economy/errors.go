package economy

import "errors"

// Error taxonomy for inventory and market operations.
//
// ErrInsufficientAvailable is recoverable: the caller asked to commit more
// than its unreserved stock or cash, and should adjust or skip the action.
// ErrInsufficientQuantity surfaces a caller-logic bug (unconditional
// removal beyond total holdings). ErrInvariantViolation means the
// reserved/total accounting itself would go inconsistent, which is always
// a programming error and is never silently clamped.
var (
	ErrInsufficientAvailable = errors.New("insufficient available")
	ErrInsufficientQuantity  = errors.New("insufficient quantity")
	ErrInvariantViolation    = errors.New("reservation invariant violation")
	ErrOrderNotFound         = errors.New("order not found")
)

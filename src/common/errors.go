package common

import "errors"

// Conflict errors are expected business outcomes: always reported to the
// caller, never swallowed, and they leave ledger state untouched.
var (
	ErrInsufficientInventory    = errors.New("insufficient inventory")
	ErrInvalidState             = errors.New("invalid state transition")
	ErrHoldExpired              = errors.New("reservation hold expired")
	ErrEventNotBookable         = errors.New("event is not bookable")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
)

// Not-found errors are caller mistakes.
var (
	ErrUnknownTicketType = errors.New("unknown ticket type")
	ErrNotFound          = errors.New("record not found")
)

package service

import "errors"

// Domain failures raised by the services. Handlers translate these with
// errors.Is; anything not in this list is treated as a storage error.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrUnavailable           = errors.New("product unavailable")
	ErrAmountExceedsBalance  = errors.New("amount exceeds balance")
	ErrAmountExceedsOriginal = errors.New("amount exceeds original payment")
	ErrForbidden             = errors.New("forbidden")
	ErrMissingReason         = errors.New("missing reason")
)

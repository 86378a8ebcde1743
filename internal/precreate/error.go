package precreate

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotDraft          = errors.New("order has already been submitted")
	ErrNotSubmitted      = errors.New("order has not been submitted yet")
	ErrNoLines           = errors.New("order has no product lines")
	ErrMissingSubject    = errors.New("order subject is required")
	ErrInvalidAmount     = errors.New("order total amount must be positive")
	ErrInvalidQuantity   = errors.New("line quantity must not be negative")
	ErrInvalidTransition = errors.New("invalid order state transition")
	ErrNoPaymentCode     = errors.New("order has no payment code to render")

	// ErrPrecreateRejected wraps the gateway's sub-message when the
	// precreate call returns a non-success code.
	ErrPrecreateRejected = errors.New("precreate rejected")
)

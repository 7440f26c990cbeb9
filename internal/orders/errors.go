package orders

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrGuestNotFound    = errors.New("guest not found")
	ErrNoCoupons        = errors.New("no coupons remaining")
	ErrAlreadyCompleted = errors.New("order already completed")
	// ErrDuplicateOrder is only returned under the "reject" duplicate
	// policy; the default policy allows re-ordering the same cocktail.
	ErrDuplicateOrder = errors.New("cocktail already ordered by this guest")
)

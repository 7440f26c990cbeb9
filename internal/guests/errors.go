package guests

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrGuestNotFound = errors.New("guest not found")
	// ErrNotOnGuestList rejects claims from emails outside the allowlist.
	ErrNotOnGuestList = errors.New("email is not on the guest list for this event")
	// ErrRequiresLogin signals a repeat claim so the client can branch to
	// the login page instead of showing a hard failure.
	ErrRequiresLogin      = errors.New("coupons already claimed, login required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyClaimed     = errors.New("cocktail already claimed")
	ErrNoCoupons          = errors.New("no coupons remaining")
	ErrGuestLocked        = errors.New("guest record is locked by another operation")
)

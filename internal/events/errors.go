package events

import "errors"

var (
	ErrNotFound       = errors.New("event not found")
	ErrDuplicateGuest = errors.New("guest already exists in this event")
	ErrGuestNotOnList = errors.New("guest not found in event")
)

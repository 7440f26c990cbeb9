package users

import "errors"

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAdminRequired rejects admin-role registration by non-admin callers.
	ErrAdminRequired = errors.New("only admins can create other admin users")
)

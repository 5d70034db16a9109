package services

import "errors"

var (
	ErrNotFound         = errors.New("search query not found")
	ErrPermissionDenied = errors.New("not permitted to fetch from the places provider")
	ErrInvalidInput     = errors.New("invalid input")

	// ErrProviderUnavailable wraps transport failures of the initial text
	// search. Non-OK provider statuses are not errors.
	ErrProviderUnavailable = errors.New("places provider unavailable")

	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrInactiveUser       = errors.New("inactive user")
	ErrUserExists         = errors.New("user already registered")
)

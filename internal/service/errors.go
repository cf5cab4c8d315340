package service

import "errors"

// Service-level errors. Controllers map these to HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfDelete         = errors.New("cannot delete own account")

	// ErrCodeSpaceExhausted means every generated candidate collided with an
	// existing code. Fatal to the single call; a client retry succeeds with
	// overwhelming probability.
	ErrCodeSpaceExhausted = errors.New("failed to generate unique short code")
)

package auth

import "errors"

var (
	// ErrInvalidToken indicates the bearer token failed verification. Signature
	// mismatch and expiry are deliberately not distinguished.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidCredentials covers both unknown email and password mismatch at
	// login, to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an email that already has a
	// credential.
	ErrEmailTaken = errors.New("email already registered")

	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

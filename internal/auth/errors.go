package auth

import "errors"

var (
	// ErrMissingCredential is returned when the request carries no session cookie.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidCredential covers bad signatures, malformed or expired tokens.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInsufficientAuthority is returned when the identity lacks the required role.
	ErrInsufficientAuthority = errors.New("insufficient authority")
)

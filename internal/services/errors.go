package services

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrUsernameTaken = errors.New("username already exists")
	ErrInvalidRole   = errors.New("account has no valid role")

	ErrMissingToken = errors.New("reset token is missing")
	ErrInvalidToken = errors.New("reset token is invalid")
	ErrExpiredToken = errors.New("reset token has expired")

	ErrNotAdded = errors.New("listing could not be added to the library")
)

// ValidationError reports user input that was rejected. Message is safe to
// show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

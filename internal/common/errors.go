// Package common defines shared constants and sentinel errors used across
// the Found & Loss server layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Registration / login errors.
	ErrorEmailTaken         = errors.New("email already registered")
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Validation errors (malformed input shape).
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid, expired or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

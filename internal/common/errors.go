// Package common defines sentinel errors and small helpers shared by the
// stub server's layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// OTP challenge errors.
	ErrNoChallenge = errors.New("no otp requested")
	ErrInvalidOTP  = errors.New("invalid otp")
	ErrOTPExpired  = errors.New("otp expired")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

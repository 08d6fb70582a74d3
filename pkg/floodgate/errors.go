package floodgate

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNonPositiveLimit is returned when a limit, duration or
	// multiplier field is zero or negative
	ErrNonPositiveLimit = errors.New("limit values must be positive")

	// ErrInvalidOperation is returned when an operation override is
	// malformed
	ErrInvalidOperation = errors.New("invalid operation limit")
)

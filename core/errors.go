package core

import "errors"

var (
	// ErrUnknownStrategy is returned for a strategy name outside the
	// supported set.
	ErrUnknownStrategy = errors.New("unknown rate limit strategy")

	// ErrNonPositiveBurst is returned when the token bucket burst limit
	// is zero or negative.
	ErrNonPositiveBurst = errors.New("burst limit must be positive")

	// ErrNonPositiveRefillRate is returned when the token bucket refill
	// rate is zero or negative.
	ErrNonPositiveRefillRate = errors.New("refill rate must be positive")
)

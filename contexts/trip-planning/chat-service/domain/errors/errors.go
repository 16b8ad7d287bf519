package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key reused with different request")
	ErrTripNotFound           = errors.New("trip not found")
	ErrMemberNotFound         = errors.New("member not found")
	ErrRateLimited            = errors.New("rate limit exceeded")
)

package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrTripNotFound   = errors.New("trip not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrOptionNotFound = errors.New("option not found in current batch")
)

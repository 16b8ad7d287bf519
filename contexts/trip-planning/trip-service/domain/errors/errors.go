package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrTripNotFound   = errors.New("trip not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyMember  = errors.New("member already joined")
	ErrTripArchived   = errors.New("trip archived")
	ErrNotOwner       = errors.New("actor is not the trip owner")
)

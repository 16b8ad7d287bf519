package errors

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrTripNotFound          = errors.New("trip not found")
	ErrArtifactNotFound      = errors.New("artifact not found")
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	ErrSchedulerClosed       = errors.New("scheduler closed")
)

package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for malformed node construction or deserialization input.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnknownAction is returned when a worker receives an action it does not support.
var ErrUnknownAction = errors.New("unknown action")

// ErrWorkerFault is returned when a request failed inside the worker for any other reason.
var ErrWorkerFault = errors.New("worker fault")

// ErrChannel marks a message that could not be matched to a pending call.
// It is never surfaced to callers; it only appears in diagnostics.
var ErrChannel = errors.New("channel error")

// ErrClientClosed is returned for calls issued on, or outstanding at, a closed client.
var ErrClientClosed = errors.New("client closed")

// UnknownActionError carries the offending action name.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Action)
}

// Is makes errors.Is(err, ErrUnknownAction) hold.
func (e *UnknownActionError) Is(target error) bool {
	return target == ErrUnknownAction
}

// invalidf builds an ErrInvalidArgument with a human readable reason.
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

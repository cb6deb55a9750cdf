package domain

import "errors"

// ErrNilState is returned when an operation receives a nil page state.
var ErrNilState = errors.New("nil page state")

// ErrRunnerStopped is returned when work is submitted to a runner that has shut down.
var ErrRunnerStopped = errors.New("runner stopped")

// ErrTraceNotFound is returned when a trace sink has no events for the requested machine.
var ErrTraceNotFound = errors.New("trace not found")

// ErrPayloadDecode is returned when a context cannot be decoded into a typed payload.
var ErrPayloadDecode = errors.New("payload decode failed")

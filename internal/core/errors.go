package core

import (
	"errors"
	"fmt"
)

// ErrNoHistory is returned by Regenerate when the type has never been generated.
var ErrNoHistory = errors.New("no previous generation to regenerate")

// ErrSlotLocked is returned when generating into a locked slot.
var ErrSlotLocked = errors.New("slot is locked; unlock it before generating")

// ErrUnknownSlot is returned for slot names other than short, medium and long.
var ErrUnknownSlot = errors.New("unknown slot")

// ErrNoVariation is returned when a variation index is out of range.
var ErrNoVariation = errors.New("no variation at that index")

// ValidationError means the parameters failed the declared rules. No request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RequestError is a non-2xx answer from the generation endpoint.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func newRequestError(status int, serverMessage string) *RequestError {
	msg := serverMessage
	if msg == "" {
		msg = fmt.Sprintf("Generation failed (%d)", status)
	}
	return &RequestError{Status: status, Message: msg}
}

// TransportError means the request itself failed or the answer could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

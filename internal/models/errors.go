package models

import (
	"errors"
	"fmt"
)

// Error kinds returned by the event store and service. Callers branch on
// them with errors.Is; the message carried alongside is safe to show.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrStorage          = errors.New("storage error")
)

// OpError pairs an error kind with a human readable message.
type OpError struct {
	Kind error
	Msg  string
}

func (e *OpError) Error() string {
	return e.Msg
}

func (e *OpError) Unwrap() error {
	return e.Kind
}

func NewError(kind error, format string, args ...any) error {
	return &OpError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundError(id string) error {
	return NewError(ErrNotFound, "an event with id=%s not found", id)
}

func StorageError(err error) error {
	return &OpError{Kind: ErrStorage, Msg: err.Error()}
}

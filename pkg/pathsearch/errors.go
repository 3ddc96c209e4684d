package pathsearch

import (
	"errors"
	"fmt"
)

// Reason classifies why a name could not be resolved.
type Reason string

const (
	ReasonInvalidName   Reason = "invalid name"
	ReasonNotExecutable Reason = "not found or not executable"
	ReasonNoSearchPath  Reason = "no search path available"
	ReasonNotFound      Reason = "not found in search path"
)

var (
	ErrInvalidName   = errors.New(string(ReasonInvalidName))
	ErrNotExecutable = errors.New(string(ReasonNotExecutable))
	ErrNoSearchPath  = errors.New(string(ReasonNoSearchPath))
	ErrNotFound      = errors.New(string(ReasonNotFound))
)

// Error is returned by Resolve. Err holds the last OS error seen, if any.
type Error struct {
	Name   string
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %q: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolve %q: %s", e.Name, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Reason.
func (e *Error) Is(target error) bool {
	switch e.Reason {
	case ReasonInvalidName:
		return target == ErrInvalidName
	case ReasonNotExecutable:
		return target == ErrNotExecutable
	case ReasonNoSearchPath:
		return target == ErrNoSearchPath
	case ReasonNotFound:
		return target == ErrNotFound
	}
	return false
}

func newError(name string, reason Reason, err error) *Error {
	return &Error{Name: name, Reason: reason, Err: err}
}

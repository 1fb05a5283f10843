package gemini

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrBadParameter
	ErrNotImplemented
	ErrConflict
	ErrOwnershipMismatch
	ErrProvider
	ErrNoCandidates
	ErrInternalServerError
	ErrMaxTokens
	ErrRefusal
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

// wrapped matches both the error code and the underlying cause
type wrapped struct {
	code  Err
	cause error
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrNotImplemented:
		return "not implemented"
	case ErrConflict:
		return "conflict"
	case ErrOwnershipMismatch:
		return "ownership mismatch"
	case ErrProvider:
		return "provider error"
	case ErrNoCandidates:
		return "no candidates returned"
	case ErrInternalServerError:
		return "internal server error"
	case ErrMaxTokens:
		return "response truncated: max tokens reached"
	case ErrRefusal:
		return "model refused to respond"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// Wrap returns an error which matches both e and err with errors.Is and
// errors.As. Returns nil if err is nil.
func (e Err) Wrap(err error) error {
	if err == nil {
		return nil
	}
	return &wrapped{code: e, cause: err}
}

func (w *wrapped) Error() string {
	return w.code.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.code, w.cause}
}

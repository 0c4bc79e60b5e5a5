package apperror

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindNotFound         Kind = "NOT_FOUND"
	KindStore            Kind = "STORE"
	KindMissingParameter Kind = "MISSING_PARAMETER"
)

// Error is the usecase-level failure. Details carries structured data
// for the caller (validation violations).
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StackTrace() []byte {
	return e.Stack
}

func New(kind Kind, message string, details any, err error) *Error {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &Error{
		Kind:    kind,
		Message: message,
		Details: details,
		Err:     err,
		Stack:   stack,
	}
}

func Validation(message string, details any, err error) *Error {
	return New(KindValidation, message, details, err)
}

func NotFound(message string, err error) *Error {
	return New(KindNotFound, message, nil, err)
}

// Store wraps a persistence failure; Message is the store's own text.
func Store(err error) *Error {
	msg := "store error"
	if err != nil {
		msg = err.Error()
	}
	return New(KindStore, msg, nil, err)
}

func MissingParameter(name string) *Error {
	return New(KindMissingParameter, name+" is required", nil, nil)
}

// From returns the first *Error in err's chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

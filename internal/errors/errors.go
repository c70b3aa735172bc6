// Package errors defines the failure taxonomy shared by the bracket engine,
// the services built on it and the HTTP layer that reports failures.
package errors

import (
	stderrors "errors"
)

// Kind groups errors by how a caller should react to them.
type Kind string

const (
	// KindValidation is a bad or missing argument, e.g. a winner that is not in the match.
	KindValidation Kind = "VALIDATION"
	// KindStructural means the bracket itself is malformed.
	KindStructural Kind = "STRUCTURAL"
	// KindNotReady means a prerequisite match has not been decided yet.
	KindNotReady Kind = "NOT_READY"
)

// Code is a machine-readable error code.
type Code string

// Error is the domain error type.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Cause   error
}

// Category sentinels. errors.Is(err, ErrValidation) matches every validation error.
var (
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrStructural = &Error{Kind: KindStructural, Message: "bracket structure is corrupt"}
	ErrNotReady   = &Error{Kind: KindNotReady, Message: "prerequisite matches are not decided"}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches by code. A target without a code is a category sentinel and matches by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return e.Kind == t.Kind
	}
	return e.Code == t.Code
}

func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(kind Kind, code Code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// KindOf reports the kind of the first domain error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

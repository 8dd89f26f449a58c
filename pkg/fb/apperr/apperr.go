// Package apperr classifies the failures a request can end with.
package apperr

import (
	"errors"
	"fmt"
)

// Kind names the precondition a failed operation violated.
type Kind string

const (
	NotFound               Kind = "not_found"
	AuthenticationRequired Kind = "authentication_required"
	PermissionDenied       Kind = "permission_denied"
	CapacityExceeded       Kind = "capacity_exceeded"
	DuplicateSubmission    Kind = "duplicate_submission"
	Validation             Kind = "validation"
	CredentialConflict     Kind = "credential_conflict"
)

// Error is a classified, user-visible failure.
type Error struct {
	Kind    Kind
	Message string
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.Message
}

// Classifier is implemented by errors that know their kind without being an *Error.
type Classifier interface {
	ErrorKind() Kind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var c Classifier
	if errors.As(err, &c) {
		return c.ErrorKind(), true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

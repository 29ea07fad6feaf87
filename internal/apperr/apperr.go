// Package apperr holds the closed set of failures an upload can end in.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failed upload.
type Kind int

const (
	// PersistenceFailure covers every unexpected error, filesystem I/O included.
	PersistenceFailure Kind = iota
	UnsupportedMediaType
	MissingPayload
)

func (k Kind) String() string {
	switch k {
	case UnsupportedMediaType:
		return "UnsupportedMediaType"
	case MissingPayload:
		return "MissingPayload"
	default:
		return "PersistenceFailure"
	}
}

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case UnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case MissingPayload:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure carrying its kind and a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, treating unclassified errors as PersistenceFailure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return PersistenceFailure
}

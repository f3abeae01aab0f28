// Package fault defines the closed error taxonomy shared by all remote
// collaborators. Transport-specific codes are translated into a Kind once
// at each collaborator boundary; the rest of the application only ever
// branches on kinds.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed remote operation.
type Kind string

const (
	// KindValidation is a malformed reference or request.
	KindValidation Kind = "validation"
	// KindConflict means the action was already effectively applied server-side.
	KindConflict Kind = "conflict"
	// KindQuotaExceeded is a rate or usage limit.
	KindQuotaExceeded Kind = "quota-exceeded"
	// KindForbidden is a permission failure.
	KindForbidden Kind = "forbidden"
	// KindServer is a transient server-side failure, retryable.
	KindServer Kind = "server"
	// KindUnknown is everything else, including nil classifications.
	KindUnknown Kind = "unknown"
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// FromStatus translates an HTTP status code into a kind. This is the single
// place transport codes are interpreted.
func FromStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusTooManyRequests:
		return KindQuotaExceeded
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindForbidden
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// Package apperr is the error taxonomy shared by services and the HTTP error
// handler. Services return *Error values; the handler renders them.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindExternal       Kind = "external_service"
	KindRateLimited    Kind = "rate_limited"
	KindInternal       Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindValidation:     http.StatusBadRequest,
	KindAuthentication: http.StatusUnauthorized,
	KindAuthorization:  http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindConflict:       http.StatusConflict,
	KindExternal:       http.StatusInternalServerError,
	KindRateLimited:    http.StatusTooManyRequests,
	KindInternal:       http.StatusInternalServerError,
}

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

type Error struct {
	Kind    Kind
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status code for the error's kind.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }

// ValidationFields returns nil when fields is empty so callers can write
// `if err := apperr.ValidationFields(errs); err != nil`.
func ValidationFields(fields FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

func Unauthorized(msg string) *Error { return New(KindAuthentication, msg) }

func Forbidden(msg string) *Error { return New(KindAuthorization, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Conflict(msg string) *Error { return New(KindConflict, msg) }

func TooManyRequests(msg string) *Error { return New(KindRateLimited, msg) }

func External(msg string, err error) *Error {
	return &Error{Kind: KindExternal, Message: msg, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

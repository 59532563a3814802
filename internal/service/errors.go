// Package service holds the business rules of the depot: authentication,
// the deposited-game lifecycle, sales and reference data. Services return
// *Error values whose Kind tells the HTTP layer which status to use.
package service

import (
	"errors"
	"fmt"
)

// Error kinds. Test with errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a classified failure with a message safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) error   { return newError(ErrBadRequest, format, args...) }
func notFound(format string, args ...any) error     { return newError(ErrNotFound, format, args...) }
func conflict(format string, args ...any) error     { return newError(ErrConflict, format, args...) }
func unauthorized(format string, args ...any) error { return newError(ErrUnauthorized, format, args...) }

// Message returns the client-facing text of err, or "" when err is not
// a classified service error.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Msg
	}
	return ""
}

// Package apperr defines the error values returned by services for expected
// failure modes. Handlers translate them into HTTP responses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	InvalidInput             Code = "INVALID_INPUT"
	Unauthorized             Code = "UNAUTHORIZED"
	AuthError                Code = "AUTH_ERROR"
	Forbidden                Code = "FORBIDDEN"
	NotFound                 Code = "NOT_FOUND"
	AlreadySubmitted         Code = "ALREADY_SUBMITTED"
	DeadlinePassed           Code = "DEADLINE_PASSED"
	VolunteerProfileNotFound Code = "VOLUNTEER_PROFILE_NOT_FOUND"
	InvalidReference         Code = "INVALID_REFERENCE"
	RateLimited              Code = "RATE_LIMITED"
	ServerError              Code = "SERVER_ERROR"
	Unknown                  Code = "UNKNOWN"
)

var statusByCode = map[Code]int{
	InvalidInput:             http.StatusBadRequest,
	Unauthorized:             http.StatusUnauthorized,
	AuthError:                http.StatusUnauthorized,
	Forbidden:                http.StatusForbidden,
	NotFound:                 http.StatusNotFound,
	AlreadySubmitted:         http.StatusConflict,
	DeadlinePassed:           http.StatusGone,
	VolunteerProfileNotFound: http.StatusPreconditionFailed,
	InvalidReference:         http.StatusUnprocessableEntity,
	RateLimited:              http.StatusTooManyRequests,
	ServerError:              http.StatusInternalServerError,
	Unknown:                  http.StatusInternalServerError,
}

// FieldErrors maps a payload field (camelCase, dotted for nested values) to
// the messages raised against it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status,omitempty"`
	Name    string         `json:"name,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus falls back to the code's default when Status is unset.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Status: statusByCode[code]}
}

func Invalid(fields FieldErrors) *Error {
	e := New(InvalidInput, "Invalid input")
	e.Meta = map[string]any{"fieldErrors": fields}
	return e
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

func Unauthenticated() *Error {
	return New(Unauthorized, "You must be signed in")
}

func Server(msg string) *Error {
	return New(ServerError, msg)
}

// From returns err as an *Error, wrapping anything else as UNKNOWN.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(Unknown, "Something went wrong")
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// Fields extracts the field errors of an INVALID_INPUT error.
func Fields(err error) FieldErrors {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Meta == nil {
		return nil
	}
	fields, _ := appErr.Meta["fieldErrors"].(FieldErrors)
	return fields
}

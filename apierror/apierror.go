// Package apierror holds the closed set of failures a judge backend call can
// end in. Kinds are decided once by the HTTP client and never re-inspected
// downstream by field checks.
package apierror

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is implemented only by the three kinds in this package.
type Error interface {
	error
	Kind() Kind
	HttpStatusCode() int
	isAPIError()
}

// FieldError is one entry of a 422 `detail` array.
type FieldError struct {
	Field string
	Msg   string
}

type ValidationError struct {
	Status int
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Msg))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Kind() Kind          { return KindValidation }
func (e *ValidationError) HttpStatusCode() int { return e.Status }
func (e *ValidationError) isAPIError()         {}

// AuthError is any rejected request that came back with a scalar detail or
// message. The detail is shown to the user verbatim.
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	return e.Detail
}

func (e *AuthError) Kind() Kind          { return KindAuth }
func (e *AuthError) HttpStatusCode() int { return e.Status }
func (e *AuthError) isAPIError()         {}

// NetworkError covers requests that never completed and responses without a
// structured body. Status is zero when no response arrived.
type NetworkError struct {
	Status int
	Cause  error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("unexpected response from judge server (status %d)", e.Status)
	}
	return "could not reach judge server"
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// DebugInfo returns the underlying cause for logs, never for users.
func (e *NetworkError) DebugInfo() error {
	return e.Cause
}

func (e *NetworkError) Kind() Kind          { return KindNetwork }
func (e *NetworkError) HttpStatusCode() int { return e.Status }
func (e *NetworkError) isAPIError()         {}

// NewNotLoggedIn is the client-side rejection used before any request is
// built when there is no bearer token.
func NewNotLoggedIn() *AuthError {
	return &AuthError{Detail: "you are not logged in"}
}

// KindOf reports the kind of err, or 0 if err is not an API error.
func KindOf(err error) Kind {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return 0
}

// Render turns err into the single line shown next to a form.
// Network failures and empty messages fall back to fallback.
func Render(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		if msg := valErr.Error(); msg != "" {
			return msg
		}
		return fallback
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		if authErr.Detail != "" {
			return authErr.Detail
		}
		return fallback
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return fallback
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

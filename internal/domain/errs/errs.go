// Package errs holds the error kinds shared by every service. Services build
// their own sentinels on top of these kinds so the HTTP layer can translate
// any of them with errors.Is / errors.As.
package errs

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	ErrDispatch     = errors.New("notification dispatch failed")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}

func NotFound(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

func Conflict(msg string) error {
	return &kindError{kind: ErrConflict, msg: msg}
}

// NonFieldKey is used for validation errors that are not tied to one input field.
const NonFieldKey = "detail"

type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Errors[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func Validation(field, msg string) *ValidationError {
	return &ValidationError{Errors: map[string]string{field: msg}}
}

// NewValidation returns nil for an empty map so callers can write
// `if err := errs.NewValidation(m); err != nil`.
func NewValidation(fieldErrors map[string]string) error {
	if len(fieldErrors) == 0 {
		return nil
	}
	return &ValidationError{Errors: fieldErrors}
}

func AsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

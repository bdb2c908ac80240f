package storage

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrInvalidReference is returned when a row points at a missing parent.
	ErrInvalidReference = errors.New("invalid reference")
)

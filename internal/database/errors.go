package database

import "errors"

var (
	// ErrValidation indicates a missing or malformed caller-supplied argument.
	ErrValidation = errors.New("missing required fields")

	// ErrAlreadyExists indicates the record is already stored.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrNotFound indicates no matching record exists.
	ErrNotFound = errors.New("record not found")
)

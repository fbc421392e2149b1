package domain

import "errors"

// Sentinel errors shared across repositories and services.
var (
	// ErrNotFound is returned when a requested record does not exist
	// or does not belong to the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput is returned for malformed or missing input fields.
	ErrInvalidInput = errors.New("invalid input")
)

package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates missing or invalid required fields.
	ErrValidation = errors.New("validation failed")

	// ErrUploadRejected indicates an upload batch was refused because a file
	// had a disallowed type or exceeded the size cap.
	ErrUploadRejected = errors.New("upload rejected")
)

package contacts

import "errors"

// Sentinel errors for the contacts service layer.
var (
	// ErrValidation marks a rejected input (missing name or email).
	// Detected before any store call.
	ErrValidation = errors.New("invalid contact input")

	// ErrNotFound is returned by repositories for an absent contact id.
	ErrNotFound = errors.New("contact not found")
)

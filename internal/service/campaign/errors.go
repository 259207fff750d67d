package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	// ErrValidation marks a rejected campaign request (missing subject
	// or body). Detected before any external call.
	ErrValidation = errors.New("invalid campaign request")

	// ErrNoContacts means the segment selected zero contacts. Surfaced to
	// the caller as an explicit error, never as a zero-count success.
	ErrNoContacts = errors.New("no contacts match the requested segment")

	// ErrUpstream wraps a failed store or mail-sender call.
	ErrUpstream = errors.New("upstream call failed")
)

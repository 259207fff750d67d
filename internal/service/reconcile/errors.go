package reconcile

import "errors"

// Sentinel errors for the reconciler.
var (
	// ErrMalformedPayload means the envelope or its nested notification
	// failed to parse. Terminal for the invocation.
	ErrMalformedPayload = errors.New("malformed notification payload")

	// ErrUnsupportedKind means the message kind is not one we handle.
	// Distinct from success so the caller can signal explicit rejection.
	ErrUnsupportedKind = errors.New("unsupported message kind")
)

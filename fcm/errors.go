package fcm

import "github.com/zeebo/errs"

var (
	// Error is the catch-all class for failures that fit no more specific
	// class, notably unclassified token-management responses.
	Error = errs.Class("fcm")

	// ErrAuthentication covers missing or rejected credentials (401).
	// Fatal to the operation; never retried.
	ErrAuthentication = errs.Class("fcm authentication")

	// ErrInvalidData covers malformed caller input and gateway 400
	// responses; it carries the server's detail when one is available.
	ErrInvalidData = errs.Class("fcm invalid data")

	// ErrNotRegistered means the target token is no longer valid (404).
	// Pruning the stored token is the caller's responsibility.
	ErrNotRegistered = errs.Class("fcm not registered")

	// ErrServer covers 5xx, unexpected statuses and malformed success
	// bodies. Transient, but not retried beyond the Retry-After wait.
	ErrServer = errs.Class("fcm server")
)

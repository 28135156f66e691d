package hub

import "errors"

var (
	ErrNotFound        = errors.New("hub: not found")
	ErrConflict        = errors.New("hub: conflict")
	ErrValidation      = errors.New("hub: validation failed")
	ErrUnauthenticated = errors.New("hub: unauthenticated")
	// ErrNoCredential means no credential was offered at all, as opposed to
	// an offered credential that failed. Lets a caller fall through to
	// another authenticator.
	ErrNoCredential = errors.New("hub: no credential offered")
	ErrInvalidRole  = errors.New("hub: invalid role")
)

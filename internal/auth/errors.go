package auth

import "errors"

var (
	// ErrNotFound is returned by the read interfaces when a record
	// does not exist. Store implementations must map their driver's
	// not-found error to this one.
	ErrNotFound = errors.New("auth: not found")

	ErrUserNotFound  = errors.New("auth: user not found")
	ErrUserInactive  = errors.New("auth: user inactive")
	ErrBadCredential = errors.New("auth: bad credential")

	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenExpired   = errors.New("auth: token expired")

	ErrMissingToken = errors.New("auth: missing bearer token")
	ErrForbidden    = errors.New("auth: forbidden")
)

package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested post, comment or reaction
	// target does not exist (or is deleted).
	ErrNotFound = errors.New("not found")

	// ErrPermission is returned when the requester is neither the author
	// nor an admin.
	ErrPermission = errors.New("permission denied")

	// ErrValidation is the base of all request-shape failures; callers
	// match it with errors.Is. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrDepthExceeded rejects a reply to a reply: maximum thread depth is
	// post -> comment -> reply.
	ErrDepthExceeded = fmt.Errorf("%w: comment depth limit exceeded", ErrValidation)

	// ErrConflict is returned when the bounded internal retries of an
	// optimistic update are exhausted. Callers may re-read and retry.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// validationf builds an error matching ErrValidation.
func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

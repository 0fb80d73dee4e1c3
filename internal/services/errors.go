package services

import (
	"errors"
	"strings"
)

// Error variables
var (
	ErrUserAlreadyExists      = errors.New("username or email already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionExpired         = errors.New("session expired")
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrPasswordMismatch       = errors.New("passwords don't match")
	ErrSkillAlreadyExists     = errors.New("skill already exists")
	ErrSkillDoesNotExist      = errors.New("skill does not exist")
	ErrUserSkillAlreadyExists = errors.New("skill already marked in this direction")
	ErrReceiverDoesNotExist   = errors.New("receiver does not exist")
	ErrSelfSwap               = errors.New("cannot send a swap request to yourself")
	ErrDuplicatePendingSwap   = errors.New("a pending swap request to this user already exists")
	ErrInvalidStatus          = errors.New("status must be accepted or rejected")
	ErrNotReceiver            = errors.New("only the receiver can accept or reject a swap request")
	ErrSwapRequestFinalized   = errors.New("swap request is already finalized")
)

// ValidationError reports rejected input field by field. It wraps the
// sentinel describing the failure so callers can use errors.Is.
type ValidationError struct {
	Err    error
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return e.Err.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// invalidField builds a ValidationError for a single field, using err as the message.
func invalidField(err error, field string) *ValidationError {
	return &ValidationError{Err: err, Fields: map[string]string{field: err.Error()}}
}

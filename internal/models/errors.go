package models

import "errors"

var (
	// ErrUniqueViolation is returned by repositories when a write hits a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrInvalidValue is returned when the database rejects a value as too long or malformed.
	ErrInvalidValue = errors.New("invalid value")
)

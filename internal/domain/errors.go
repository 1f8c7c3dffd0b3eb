package domain

import "errors"

// Sentinel errors returned by repositories and services. Handlers map them
// to HTTP status codes with errors.Is.
var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidInput        = errors.New("invalid input")
)

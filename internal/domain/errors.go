package domain

import "errors"

// Sentinel errors shared across services. Controllers translate these into
// stable response codes one layer up; services never retry on them.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidState       = errors.New("invalid state")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrGateway            = errors.New("payment gateway error")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
)

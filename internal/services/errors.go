package services

import "errors"

// Business failure kinds surfaced by the services. Handlers map these to
// HTTP status codes with errors.Is; everything else is treated as an
// internal storage failure.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrStorageFailure    = errors.New("storage failure")
)

package models

import "errors"

// Domain errors shared by every workflow. Services wrap these with context;
// callers branch with errors.Is.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrInvalidQuery        = errors.New("invalid query")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyHandled      = errors.New("already handled")
	ErrNotAvailable        = errors.New("not available")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

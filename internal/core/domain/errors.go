package domain

import "errors"

// Caller-facing errors. They are returned wrapped, match with errors.Is.
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOperationPending   = errors.New("another sign-in is already in progress")
	ErrNotRestored        = errors.New("session is still loading")
	ErrAlreadyRestored    = errors.New("session already restored")
)

// Storage-side errors. SessionService absorbs these; they never reach the UI.
var (
	ErrStorageCorrupt     = errors.New("persisted session record is corrupt")
	ErrRecordNotFound     = errors.New("session record not found")
	ErrRecordExpired      = errors.New("session record expired")
	ErrIncompleteIdentity = errors.New("identity has empty fields")
)

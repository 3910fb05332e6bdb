package models

import "errors"

// Custom errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrInvalidID       = errors.New("invalid ID format")
	ErrNoSchedule      = errors.New("no schedule available for requested week")
	ErrProviderTimeout = errors.New("provider fetch timed out")
)

package services

import "errors"

// Sentinel errors shared by all services. Controllers map these to
// HTTP status codes; anything else is a 500.
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

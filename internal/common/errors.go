package common

import "errors"

// Error taxonomy shared by services and handlers. Packages wrap these with
// %w and handlers classify with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

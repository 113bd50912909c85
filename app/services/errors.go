package services

import "errors"

// Error taxonomy surfaced to the API boundary. Controllers match these
// with errors.Is to pick status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authorized")
	ErrForbidden          = errors.New("forbidden: insufficient privileges")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
)

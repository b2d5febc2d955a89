package errors

import "errors"

var (
	ErrMissingCredentials = errors.New("Missing username/password")
	ErrInvalidLogin       = errors.New("Invalid login")
)

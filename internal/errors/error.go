package errors

import (
	"errors"
)

var (
	ErrEmptyAuth    = errors.New("missing authorization")
	ErrTokenInvalid = errors.New("invalid token")
	ErrForbidden    = errors.New("insufficient role")
	ErrInvalidJson  = errors.New("invalid json")
)

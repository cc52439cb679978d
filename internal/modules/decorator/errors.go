package decorator

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrInvalidStatus  = errors.New("invalid decorator status")
	ErrNotFound       = errors.New("decorator not found")
	ErrAlreadyApplied = errors.New("already applied")
	ErrForbidden      = errors.New("forbidden")
)

package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidPath    = errors.New("invalid path")
	ErrUnsupported    = errors.New("unsupported")
)

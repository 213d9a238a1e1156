package directory

import "errors"

var (
	ErrNotFound   = errors.New("provider not found")
	ErrValidation = errors.New("invalid provider input")
)

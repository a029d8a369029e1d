package submission

import (
	"errors"
)

var (
	ErrNotFound       = errors.New("submission not found")
	ErrAlreadyExists  = errors.New("submission already exists")
	ErrInvalidPayload = errors.New("invalid submission payload")
	ErrUnknownForm    = errors.New("unknown form")
	ErrInvalidID      = errors.New("invalid submission id")
)

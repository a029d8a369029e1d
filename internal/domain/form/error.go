package form

import (
	"errors"
)

var (
	ErrNotFound = errors.New("form not found")
)

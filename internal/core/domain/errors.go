package domain

import "errors"

// ErrInvalidInput signals a request the service refuses to act on.
var ErrInvalidInput = errors.New("invalid input")

package domain

import "errors"

// ErrValidation is returned when a domain entity fails validation.
// It is wrapped with a more specific message at each return site.
var ErrValidation = errors.New("validation failed")

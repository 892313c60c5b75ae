package validate

import (
	"errors"
	"strings"
)

var (
	// ErrValidation is matched by every *Errors value.
	ErrValidation = errors.New("validation failed")

	// ErrMalformed means the body is not JSON at all.
	ErrMalformed = errors.New("malformed JSON")
)

// Errors lists every field problem found in one document, in field order.
type Errors struct {
	Details []string
}

func (e *Errors) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Details, "; ")
}

func (e *Errors) Is(target error) bool { return target == ErrValidation }

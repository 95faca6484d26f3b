// Package gameerr holds the error classes shared by the game packages.
//
// Caller mistakes are returned as errors wrapping one of the sentinels below.
// Internal defects (a corrupted tile catalog, a broken partition) are not
// recoverable and panic with an *InvariantError.
package gameerr

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks malformed caller input: wrong next action, illegal
	// position, foreign or occupied zone.
	ErrPrecondition = errors.New("precondition violated")
	// ErrNotFound marks a lookup of an unknown zone, tile or area.
	ErrNotFound = errors.New("not found")
	// ErrDecode marks a malformed remote action string.
	ErrDecode = errors.New("decode failure")
)

// InvariantError is the panic value of an internal defect.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Message
}

// Invariantf panics with an *InvariantError.
func Invariantf(format string, args ...any) {
	panic(&InvariantError{Message: fmt.Sprintf(format, args...)})
}

// Preconditionf returns an error wrapping ErrPrecondition.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrPrecondition)
}

// Decodef returns an error wrapping ErrDecode.
func Decodef(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDecode)
}

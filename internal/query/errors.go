package query

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned by combinator edits with a bad index.
	ErrIndexOutOfRange = errors.New("subquery index out of range")

	// ErrNilQuery is returned when a nil node is added to a combinator.
	ErrNilQuery = errors.New("nil query")

	// ErrCycle is returned when an edit would make a node its own descendant.
	ErrCycle = errors.New("query would contain itself")

	// ErrUnknownKind is returned by New and ParseKind for unregistered kinds.
	ErrUnknownKind = errors.New("unknown query kind")

	// ErrInvalidField is matched by FieldError.
	ErrInvalidField = errors.New("invalid field name")
)

// FieldError reports a field name that is empty or not an identifier.
type FieldError struct {
	Field string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %q", ErrInvalidField, e.Field)
}

// Is makes errors.Is(err, ErrInvalidField) hold.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

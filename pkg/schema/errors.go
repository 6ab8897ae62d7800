package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyName is returned when a field is declared without a name.
	ErrEmptyName = errors.New("schema: field name is required")
	// ErrDuplicateField is returned when two fields share a name.
	ErrDuplicateField = errors.New("schema: duplicate field")
	// ErrFrozen is returned when a builder is used after Build.
	ErrFrozen = errors.New("schema: builder already built")
)

// UnknownFieldError reports a reference to a name the schema does not declare.
// It is a programming or configuration error and is never recovered from.
type UnknownFieldError struct {
	Field string
	Known []string
}

func (e *UnknownFieldError) Error() string {
	if e == nil {
		return "schema: unknown field"
	}
	if len(e.Known) == 0 {
		return fmt.Sprintf("schema: unknown field %q", e.Field)
	}
	return fmt.Sprintf("schema: unknown field %q (known: %s)", e.Field, strings.Join(e.Known, ", "))
}

// IsUnknownField reports whether err wraps an *UnknownFieldError.
func IsUnknownField(err error) bool {
	var target *UnknownFieldError
	return errors.As(err, &target)
}

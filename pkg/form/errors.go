package form

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by operations on a Context after Close.
var ErrClosed = errors.New("form: context is closed")

// SubmitError is the aggregate validation failure returned by Submit. It is
// ordinary data for the caller to present, not an exceptional condition.
type SubmitError struct {
	// Errors maps each invalid field to its first failing rule message.
	Errors map[string]string
	// Fields lists the invalid fields in schema order.
	Fields []string
}

func (e *SubmitError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "form: submit failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Errors[name]))
	}
	return "form: submit failed: " + strings.Join(parts, "; ")
}

// Message returns the error recorded for name.
func (e *SubmitError) Message(name string) string {
	if e == nil {
		return ""
	}
	return e.Errors[name]
}

// AsSubmitError unwraps a *SubmitError from err.
func AsSubmitError(err error) (*SubmitError, bool) {
	var target *SubmitError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

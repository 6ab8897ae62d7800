package form

import (
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Submit revalidates every field. When all pass it returns a copy of the
// values; otherwise it returns a *SubmitError with the complete error map and
// leaves values untouched. Every listener is notified with SourceSubmit so
// controls can surface submit-time errors.
func (c *Context[S]) Submit() (Values, error) {
	if c.closed {
		return nil, ErrClosed
	}
	c.submits++

	results := make([]schema.Result, 0, c.schema.Len())
	failure := &SubmitError{Errors: make(map[string]string)}
	for _, name := range c.schema.Keys() {
		result, err := c.schema.Validate(name, c.values[name])
		if err != nil {
			return nil, err
		}
		c.record(result)
		results = append(results, result)
		if !result.Valid {
			failure.Errors[name] = result.Message
			failure.Fields = append(failure.Fields, name)
		}
	}

	c.emit(Event{Kind: EventSubmit, Valid: len(failure.Fields) == 0, Invalid: len(failure.Fields)})
	for _, result := range results {
		c.notify(result.Field, Change{
			Field:     result.Field,
			Value:     c.values[result.Field],
			Source:    SourceSubmit,
			Validated: true,
			Result:    result,
		})
	}

	if len(failure.Fields) > 0 {
		return nil, failure
	}
	return c.values.clone(), nil
}

// SubmitFunc receives validated values.
type SubmitFunc func(Values) error

// HandleSubmit wraps fn so it only runs with values that passed Submit. The
// returned function reports the *SubmitError when validation fails and the
// error from fn otherwise.
func (c *Context[S]) HandleSubmit(fn SubmitFunc) func() error {
	return func() error {
		values, err := c.Submit()
		if err != nil {
			return err
		}
		if fn == nil {
			return nil
		}
		return fn(values)
	}
}

// SubmitInto submits and decodes the values into out. It is meant for forms
// whose brand S is the value struct the schema was derived from.
func (c *Context[S]) SubmitInto(out *S) error {
	values, err := c.Submit()
	if err != nil {
		return err
	}
	return Decode(values, out)
}

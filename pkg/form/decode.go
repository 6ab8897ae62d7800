package form

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Decode copies values into the struct out using the same `form` tags
// schema.FromStruct reads. Untagged fields match case-insensitively.
func Decode[T any](values Values, out *T) error {
	if out == nil {
		return fmt.Errorf("form: decode target is nil")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          schema.TagName,
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("form: configure decoder: %w", err)
	}
	if err := decoder.Decode(map[string]string(values)); err != nil {
		return fmt.Errorf("form: decode values: %w", err)
	}
	return nil
}

package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	extensionOrder       = "x-order"
	extensionPlaceholder = "x-placeholder"
	extensionInput       = "x-input"
)

// DefinitionFromOpenAPI reads components.schemas[component] from an OpenAPI
// 3 document and converts its string properties into a Definition. Required
// properties gain a required rule; minLength, maxLength and pattern map onto
// the matching rules; title becomes the label; default becomes the default
// value. Properties are ordered by x-order, then by name. Non-string
// properties are skipped.
func DefinitionFromOpenAPI(ctx context.Context, raw []byte, component string) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	if len(raw) == 0 {
		return Definition{}, errors.New("schema openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Definition{}, fmt.Errorf("schema openapi: load document: %w", err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return Definition{}, errors.New("schema openapi: document has no component schemas")
	}

	ref, ok := spec.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return Definition{}, fmt.Errorf("schema openapi: component %q not found", component)
	}

	return definitionFromSchema(component, ref.Value)
}

type orderedProperty struct {
	name   string
	order  int
	schema *openapi3.Schema
}

func definitionFromSchema(id string, src *openapi3.Schema) (Definition, error) {
	required := make(map[string]struct{}, len(src.Required))
	for _, name := range src.Required {
		required[name] = struct{}{}
	}

	props := make([]orderedProperty, 0, len(src.Properties))
	for name, ref := range src.Properties {
		if ref == nil || ref.Value == nil || !isStringSchema(ref.Value) {
			continue
		}
		order, ok := extensionInt(ref.Value.Extensions, extensionOrder)
		if !ok {
			order = int(^uint(0) >> 1)
		}
		props = append(props, orderedProperty{name: name, order: order, schema: ref.Value})
	}
	if len(props) == 0 {
		return Definition{}, fmt.Errorf("schema openapi: component %q has no string properties", id)
	}
	sort.SliceStable(props, func(i, j int) bool {
		if props[i].order != props[j].order {
			return props[i].order < props[j].order
		}
		return props[i].name < props[j].name
	})

	def := Definition{ID: id, Title: strings.TrimSpace(src.Title)}
	for _, prop := range props {
		s := prop.schema
		field := FieldDefinition{
			Name:        prop.name,
			Label:       strings.TrimSpace(s.Title),
			Placeholder: extensionString(s.Extensions, extensionPlaceholder),
			Input:       inputFromFormat(s.Format, extensionString(s.Extensions, extensionInput)),
			Pattern:     s.Pattern,
		}
		if _, ok := required[prop.name]; ok {
			field.Required = true
		}
		if s.MinLength > 0 {
			n := int(s.MinLength)
			field.MinLength = &n
		}
		if s.MaxLength != nil {
			n := int(*s.MaxLength)
			field.MaxLength = &n
		}
		if value, ok := s.Default.(string); ok {
			field.Default = value
		}
		def.Fields = append(def.Fields, field)
	}
	return def, nil
}

func isStringSchema(s *openapi3.Schema) bool {
	if s.Type == nil {
		return false
	}
	for _, typ := range s.Type.Slice() {
		if typ == "string" {
			return true
		}
	}
	return false
}

func inputFromFormat(format, override string) string {
	if override != "" {
		return override
	}
	switch format {
	case "email", "password", "date", "time", "url":
		return format
	case "date-time":
		return "datetime-local"
	case "uri":
		return "url"
	default:
		return ""
	}
}

func extensionString(ext map[string]any, key string) string {
	switch value := ext[key].(type) {
	case string:
		return value
	case json.RawMessage:
		var out string
		if err := json.Unmarshal(value, &out); err == nil {
			return out
		}
	}
	return ""
}

func extensionInt(ext map[string]any, key string) (int, bool) {
	switch value := ext[key].(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case int64:
		return int(value), true
	case string:
		n, err := strconv.Atoi(value)
		return n, err == nil
	case json.RawMessage:
		var n int
		if err := json.Unmarshal(value, &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

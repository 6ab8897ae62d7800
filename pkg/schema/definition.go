package schema

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the declarative form of a schema, authored as YAML or JSON:
//
//	id: signup
//	fields:
//	  - name: firstName
//	    label: First name
//	    minLength: 2
//	    maxLength: 50
type Definition struct {
	ID     string            `json:"id,omitempty" yaml:"id,omitempty"`
	Title  string            `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []FieldDefinition `json:"fields" yaml:"fields"`
}

// FieldDefinition declares one field of a Definition.
type FieldDefinition struct {
	Name        string            `json:"name" yaml:"name"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Input       string            `json:"input,omitempty" yaml:"input,omitempty"`
	Default     string            `json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength   *int              `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int              `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern     string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Messages    map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Dynamic brands schemas whose field set is only known at runtime. Keys for
// dynamic schemas come from Lookup/Resolve, so misspellings surface as
// *UnknownFieldError instead of compile errors.
type Dynamic struct{}

// ParseDefinition decodes a YAML or JSON document.
func ParseDefinition(doc Document) (Definition, error) {
	raw := doc.Raw()
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Definition{}, fmt.Errorf("schema: definition %s is empty", doc.Location())
	}
	var def Definition
	// JSON is a subset of YAML, so one decoder covers both formats.
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return Definition{}, fmt.Errorf("schema: parse definition %s: %w", doc.Location(), err)
	}
	if len(def.Fields) == 0 {
		return Definition{}, fmt.Errorf("schema: definition %s declares no fields", doc.Location())
	}
	return def, nil
}

// LoadDefinition loads and parses the definition behind src.
func LoadDefinition(ctx context.Context, loader *Loader, src Source) (Definition, error) {
	if loader == nil {
		loader = NewLoader()
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return Definition{}, err
	}
	return ParseDefinition(doc)
}

// Compile turns a definition into a Schema branded S.
func Compile[S any](def Definition) (*Schema[S], error) {
	b := NewBuilder[S]().ID(def.ID)
	for _, field := range def.Fields {
		b.Field(field.Name, field.Options()...)
	}
	s, err := b.Build()
	if err != nil {
		id := def.ID
		if id == "" {
			id = "<anonymous>"
		}
		return nil, fmt.Errorf("schema: compile definition %s: %w", id, err)
	}
	return s, nil
}

// Options converts the declaration into builder options.
func (f FieldDefinition) Options() []FieldOption {
	var options []FieldOption
	if f.Label != "" {
		options = append(options, Label(f.Label))
	}
	if f.Placeholder != "" {
		options = append(options, Placeholder(f.Placeholder))
	}
	if f.Input != "" {
		options = append(options, InputType(f.Input))
	}
	if f.Required {
		options = append(options, Required())
	}
	if f.MinLength != nil {
		options = append(options, MinLength(*f.MinLength))
	}
	if f.MaxLength != nil {
		options = append(options, MaxLength(*f.MaxLength))
	}
	if f.Pattern != "" {
		options = append(options, Pattern(f.Pattern))
	}
	for kind, text := range f.Messages {
		options = append(options, Message(RuleKind(kind), text))
	}
	return options
}

// Defaults returns the default value of every declared field.
func (d Definition) Defaults() map[string]string {
	out := make(map[string]string, len(d.Fields))
	for _, field := range d.Fields {
		out[field.Name] = field.Default
	}
	return out
}

// Marshal encodes the definition as YAML.
func (d Definition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

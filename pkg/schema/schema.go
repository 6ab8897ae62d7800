package schema

import (
	"fmt"
	"strings"
)

// Field is a typed key into a Schema. Keys are only produced by the schema
// that declares them, so holding a Field[S] proves the name exists in a
// Schema[S]. The zero value belongs to no schema and is rejected everywhere.
type Field[S any] struct {
	name  string
	index int
	owner *Schema[S]
}

// Name returns the declared field name.
func (f Field[S]) Name() string {
	return f.name
}

// IsZero reports whether f was not obtained from a schema.
func (f Field[S]) IsZero() bool {
	return f.owner == nil
}

func (f Field[S]) String() string {
	return f.name
}

// Result is the outcome of validating one field value.
type Result struct {
	Field   string   `json:"field"`
	Valid   bool     `json:"valid"`
	Rule    RuleKind `json:"rule,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Schema is an ordered, immutable set of field declarations. S brands the
// schema so keys, form contexts and binders built for one schema type cannot
// be mixed with another.
type Schema[S any] struct {
	id      string
	fields  []FieldSpec
	index   map[string]int
	offsets map[uintptr]int
	built   bool
}

// ID returns the optional schema identifier.
func (s *Schema[S]) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Len returns the number of declared fields.
func (s *Schema[S]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Keys returns the declared names in declaration order.
func (s *Schema[S]) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.fields))
	for idx, spec := range s.fields {
		keys[idx] = spec.Name
	}
	return keys
}

// Fields returns the typed keys in declaration order.
func (s *Schema[S]) Fields() []Field[S] {
	if s == nil {
		return nil
	}
	out := make([]Field[S], len(s.fields))
	for idx, spec := range s.fields {
		out[idx] = Field[S]{name: spec.Name, index: idx, owner: s}
	}
	return out
}

// Has reports whether name is declared.
func (s *Schema[S]) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup resolves a runtime name into a typed key.
func (s *Schema[S]) Lookup(name string) (Field[S], bool) {
	if s == nil {
		return Field[S]{}, false
	}
	idx, ok := s.index[name]
	if !ok {
		return Field[S]{}, false
	}
	return Field[S]{name: name, index: idx, owner: s}, true
}

// Resolve is Lookup returning an *UnknownFieldError for undeclared names.
func (s *Schema[S]) Resolve(name string) (Field[S], error) {
	field, ok := s.Lookup(name)
	if !ok {
		return Field[S]{}, s.unknown(name)
	}
	return field, nil
}

// Owns reports whether f was issued by this schema.
func (s *Schema[S]) Owns(f Field[S]) bool {
	return s != nil && f.owner == s && f.index >= 0 && f.index < len(s.fields)
}

// Check returns an *UnknownFieldError when f was not issued by this schema.
func (s *Schema[S]) Check(f Field[S]) error {
	if s.Owns(f) {
		return nil
	}
	return s.unknown(f.name)
}

// Spec returns the declaration behind f.
func (s *Schema[S]) Spec(f Field[S]) (FieldSpec, error) {
	if err := s.Check(f); err != nil {
		return FieldSpec{}, err
	}
	return cloneSpec(s.fields[f.index]), nil
}

// Specs returns copies of every declaration in order.
func (s *Schema[S]) Specs() []FieldSpec {
	if s == nil {
		return nil
	}
	out := make([]FieldSpec, len(s.fields))
	for idx, spec := range s.fields {
		out[idx] = cloneSpec(spec)
	}
	return out
}

// Validate applies the rules declared for name to value. The first failing
// rule decides the result. Undeclared names return an *UnknownFieldError.
func (s *Schema[S]) Validate(name, value string) (Result, error) {
	field, err := s.Resolve(name)
	if err != nil {
		return Result{Field: name}, err
	}
	return s.validateAt(field.index, value), nil
}

// ValidateField is Validate for a typed key.
func (s *Schema[S]) ValidateField(f Field[S], value string) (Result, error) {
	if err := s.Check(f); err != nil {
		return Result{Field: f.name}, err
	}
	return s.validateAt(f.index, value), nil
}

func (s *Schema[S]) validateAt(idx int, value string) Result {
	spec := s.fields[idx]
	for _, rule := range spec.Rules {
		if !rule.Check(value) {
			return Result{
				Field:   spec.Name,
				Valid:   false,
				Rule:    rule.Kind,
				Message: rule.Message,
			}
		}
	}
	return Result{Field: spec.Name, Valid: true}
}

func (s *Schema[S]) unknown(name string) error {
	return &UnknownFieldError{Field: name, Known: s.Keys()}
}

func cloneSpec(spec FieldSpec) FieldSpec {
	spec.Rules = append([]Rule(nil), spec.Rules...)
	return spec
}

// Builder declares fields in order and freezes them into a Schema.
type Builder[S any] struct {
	schema *Schema[S]
	err    error
}

// NewBuilder starts a schema declaration for brand S.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{
		schema: &Schema[S]{index: make(map[string]int)},
	}
}

// ID sets an optional identifier used in logs and rendered markup.
func (b *Builder[S]) ID(id string) *Builder[S] {
	if b.schema.built {
		b.fail(ErrFrozen)
		return b
	}
	b.schema.id = strings.TrimSpace(id)
	return b
}

// Field declares a field and returns its typed key. Errors are deferred to
// Build so declarations read as a flat list.
func (b *Builder[S]) Field(name string, options ...FieldOption) Field[S] {
	if b.schema.built {
		b.fail(ErrFrozen)
		return Field[S]{}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		b.fail(ErrEmptyName)
		return Field[S]{}
	}
	if _, exists := b.schema.index[name]; exists {
		b.fail(fmt.Errorf("%w: %q", ErrDuplicateField, name))
		return Field[S]{}
	}

	cfg := fieldConfig{spec: FieldSpec{Name: name}}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	spec, err := cfg.finish()
	if err != nil {
		b.fail(err)
		return Field[S]{}
	}

	idx := len(b.schema.fields)
	b.schema.fields = append(b.schema.fields, spec)
	b.schema.index[name] = idx
	return Field[S]{name: name, index: idx, owner: b.schema}
}

// Build freezes the declaration. Keys returned by Field stay valid.
func (b *Builder[S]) Build() (*Schema[S], error) {
	if b.err != nil {
		return nil, b.err
	}
	b.schema.built = true
	return b.schema, nil
}

// MustBuild panics when the declaration is invalid. Useful for package-level
// schema variables.
func (b *Builder[S]) MustBuild() *Schema[S] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *Builder[S]) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

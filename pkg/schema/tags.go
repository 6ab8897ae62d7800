package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Struct tags read by FromStruct.
const (
	TagName        = "form"
	TagValidate    = "validate"
	TagPattern     = "pattern"
	TagLabel       = "label"
	TagPlaceholder = "placeholder"
	TagInput       = "input"
)

// FromStruct derives a schema from the exported string fields of struct S.
//
//	type Signup struct {
//		FirstName string `form:"firstName" validate:"min=2,max=50" label:"First name"`
//		LastName  string `form:"lastName" validate:"min=2,max=50"`
//	}
//
// The field name defaults to the Go name with a lower-cased first letter;
// `form:"-"` skips a field. The validate tag accepts required, min=N and
// max=N; patterns use the separate pattern tag because they may contain
// commas. Keys for struct-derived schemas can be obtained with Select.
func FromStruct[S any]() (*Schema[S], error) {
	typ := reflect.TypeOf((*S)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: FromStruct requires a struct type, got %s", typ)
	}

	b := NewBuilder[S]().ID(lowerFirst(typ.Name()))
	offsets := make(map[uintptr]int)

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := tagName(sf)
		if skip {
			continue
		}
		if sf.Type.Kind() != reflect.String {
			return nil, fmt.Errorf("schema: field %s.%s: only string fields are supported, got %s", typ.Name(), sf.Name, sf.Type)
		}

		options, err := tagOptions(sf)
		if err != nil {
			return nil, fmt.Errorf("schema: field %s.%s: %w", typ.Name(), sf.Name, err)
		}
		key := b.Field(name, options...)
		if key.IsZero() {
			// the builder recorded why; Build reports it
			continue
		}
		offsets[sf.Offset] = key.index
	}

	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	s.offsets = offsets
	return s, nil
}

// MustFromStruct panics when FromStruct fails.
func MustFromStruct[S any]() *Schema[S] {
	s, err := FromStruct[S]()
	if err != nil {
		panic(err)
	}
	return s
}

// Select resolves the key for the struct field returned by selector. Because
// the selector is ordinary Go code, a misspelled field does not compile:
//
//	first := schema.MustSelect(signup, func(v *Signup) *string { return &v.FirstName })
func Select[S any](s *Schema[S], selector func(*S) *string) (Field[S], error) {
	if s == nil {
		return Field[S]{}, fmt.Errorf("schema: select on nil schema")
	}
	if selector == nil {
		return Field[S]{}, fmt.Errorf("schema: selector is required")
	}

	var probe S
	ptr := selector(&probe)
	if ptr == nil {
		return Field[S]{}, fmt.Errorf("schema: selector returned nil")
	}

	typ := reflect.TypeOf((*S)(nil)).Elem()
	base := reflect.ValueOf(&probe).Pointer()
	addr := reflect.ValueOf(ptr).Pointer()
	if addr < base || addr >= base+typ.Size() {
		return Field[S]{}, fmt.Errorf("schema: selector must return a field of its argument")
	}
	offset := addr - base

	if idx, ok := s.offsets[offset]; ok {
		return Field[S]{name: s.fields[idx].Name, index: idx, owner: s}, nil
	}
	return Field[S]{}, s.unknown(fieldAtOffset(typ, offset))
}

// MustSelect panics when Select fails.
func MustSelect[S any](s *Schema[S], selector func(*S) *string) Field[S] {
	field, err := Select(s, selector)
	if err != nil {
		panic(err)
	}
	return field
}

func tagName(sf reflect.StructField) (string, bool) {
	raw, ok := sf.Tag.Lookup(TagName)
	if !ok {
		return lowerFirst(sf.Name), false
	}
	name := strings.TrimSpace(strings.Split(raw, ",")[0])
	if name == "-" {
		return "", true
	}
	if name == "" {
		name = lowerFirst(sf.Name)
	}
	return name, false
}

func tagOptions(sf reflect.StructField) ([]FieldOption, error) {
	var options []FieldOption
	if label, ok := sf.Tag.Lookup(TagLabel); ok {
		options = append(options, Label(label))
	}
	if placeholder, ok := sf.Tag.Lookup(TagPlaceholder); ok {
		options = append(options, Placeholder(placeholder))
	}
	if input, ok := sf.Tag.Lookup(TagInput); ok {
		options = append(options, InputType(input))
	}
	if pattern, ok := sf.Tag.Lookup(TagPattern); ok && pattern != "" {
		options = append(options, Pattern(pattern))
	}

	for _, part := range strings.Split(sf.Tag.Get(TagValidate), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		switch strings.TrimSpace(key) {
		case "required":
			options = append(options, Required())
		case "min":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid min %q", value)
			}
			options = append(options, MinLength(n))
		case "max":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid max %q", value)
			}
			options = append(options, MaxLength(n))
		default:
			return nil, fmt.Errorf("unsupported validate rule %q", key)
		}
	}
	return options, nil
}

func fieldAtOffset(typ reflect.Type, offset uintptr) string {
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Offset == offset {
			return typ.Field(i).Name
		}
	}
	return fmt.Sprintf("<offset %d>", offset)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

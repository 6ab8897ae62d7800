package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type signupForm struct{}

func signupSchema(t *testing.T) (*Schema[signupForm], Field[signupForm], Field[signupForm]) {
	t.Helper()
	b := NewBuilder[signupForm]().ID("signup")
	first := b.Field("firstName", Label("First name"), MinLength(2), MaxLength(50))
	last := b.Field("lastName", Label("Last name"), MinLength(2), MaxLength(50))
	s, err := b.Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s, first, last
}

func TestSchema_LengthBoundaries(t *testing.T) {
	s, first, _ := signupSchema(t)

	cases := []struct {
		name  string
		value string
		valid bool
		rule  RuleKind
	}{
		{name: "length 1", value: "a", valid: false, rule: RuleMinLength},
		{name: "length 2", value: "Al", valid: true},
		{name: "length 50", value: strings.Repeat("x", 50), valid: true},
		{name: "length 51", value: strings.Repeat("x", 51), valid: false, rule: RuleMaxLength},
		{name: "multibyte counts runes", value: "Zoë", valid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := s.ValidateField(first, tc.value)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if result.Valid != tc.valid {
				t.Fatalf("valid = %v, want %v (%+v)", result.Valid, tc.valid, result)
			}
			if result.Rule != tc.rule {
				t.Fatalf("rule = %q, want %q", result.Rule, tc.rule)
			}
		})
	}
}

func TestSchema_Messages(t *testing.T) {
	s, _, _ := signupSchema(t)

	short, err := s.Validate("firstName", "a")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(short.Message, "too short") {
		t.Fatalf("expected too short message, got %q", short.Message)
	}

	long, err := s.Validate("firstName", strings.Repeat("x", 51))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(long.Message, "too long") {
		t.Fatalf("expected too long message, got %q", long.Message)
	}
}

func TestSchema_RuleOrderShortCircuits(t *testing.T) {
	b := NewBuilder[signupForm]()
	calls := 0
	code := b.Field("code",
		Custom("even", "must be even length", func(v string) bool {
			calls++
			return len(v)%2 == 0
		}),
		Pattern(`^[a-z]+$`),
		MaxLength(4),
		MinLength(2),
		Required(),
	)
	s := b.MustBuild()

	spec, err := s.Spec(code)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	var kinds []RuleKind
	for _, rule := range spec.Rules {
		kinds = append(kinds, rule.Kind)
	}
	want := []RuleKind{RuleRequired, RuleMinLength, RuleMaxLength, RulePattern, RuleCustom}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("rule order mismatch (-want +got):\n%s", diff)
	}

	result, _ := s.ValidateField(code, "")
	if result.Rule != RuleRequired || result.Message != "required" {
		t.Fatalf("expected required failure, got %+v", result)
	}
	result, _ = s.ValidateField(code, "ABC")
	if result.Rule != RulePattern {
		t.Fatalf("expected pattern failure, got %+v", result)
	}
	if calls != 0 {
		t.Fatalf("custom rule ran after an earlier failure")
	}
	result, _ = s.ValidateField(code, "abc")
	if result.Rule != RuleCustom || result.Message != "must be even length" {
		t.Fatalf("expected custom failure, got %+v", result)
	}
	result, _ = s.ValidateField(code, "abcd")
	if !result.Valid {
		t.Fatalf("expected valid, got %+v", result)
	}
}

func TestSchema_MessageOverride(t *testing.T) {
	b := NewBuilder[signupForm]()
	name := b.Field("name", MinLength(2), Message(RuleMinLength, "name is too short"))
	s := b.MustBuild()

	result, _ := s.ValidateField(name, "a")
	if result.Message != "name is too short" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestSchema_UnknownField(t *testing.T) {
	s, _, _ := signupSchema(t)

	_, err := s.Validate("bingBong", "value")
	var unknown *UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if unknown.Field != "bingBong" {
		t.Fatalf("unexpected field %q", unknown.Field)
	}
	if diff := cmp.Diff([]string{"firstName", "lastName"}, unknown.Known); diff != "" {
		t.Fatalf("known mismatch (-want +got):\n%s", diff)
	}
	if !IsUnknownField(err) {
		t.Fatalf("IsUnknownField returned false")
	}

	if _, err := s.ValidateField(Field[signupForm]{}, "x"); !IsUnknownField(err) {
		t.Fatalf("zero key should be rejected, got %v", err)
	}
}

func TestSchema_ForeignKeyRejected(t *testing.T) {
	s, _, _ := signupSchema(t)
	other, first, _ := signupSchema(t)

	if !other.Owns(first) {
		t.Fatalf("schema should own its own key")
	}
	if s.Owns(first) {
		t.Fatalf("schema should not own a key issued by another instance")
	}
	if err := s.Check(first); !IsUnknownField(err) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
}

func TestSchema_KeysAndLookup(t *testing.T) {
	s, first, last := signupSchema(t)

	if diff := cmp.Diff([]string{"firstName", "lastName"}, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	got, ok := s.Lookup("lastName")
	if !ok || got != last {
		t.Fatalf("lookup returned %v, %v", got, ok)
	}
	if s.Has("bingBong") {
		t.Fatalf("Has should be false for undeclared names")
	}
	fields := s.Fields()
	if len(fields) != 2 || fields[0] != first {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		b := NewBuilder[signupForm]()
		b.Field("email")
		b.Field("email")
		if _, err := b.Build(); !errors.Is(err, ErrDuplicateField) {
			t.Fatalf("expected ErrDuplicateField, got %v", err)
		}
	})
	t.Run("empty", func(t *testing.T) {
		b := NewBuilder[signupForm]()
		if key := b.Field("  "); !key.IsZero() {
			t.Fatalf("expected zero key")
		}
		if _, err := b.Build(); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("expected ErrEmptyName, got %v", err)
		}
	})
	t.Run("bad pattern", func(t *testing.T) {
		b := NewBuilder[signupForm]()
		b.Field("code", Pattern("("))
		if _, err := b.Build(); err == nil {
			t.Fatalf("expected pattern compile error")
		}
	})
	t.Run("frozen", func(t *testing.T) {
		b := NewBuilder[signupForm]()
		b.Field("one")
		if _, err := b.Build(); err != nil {
			t.Fatalf("build: %v", err)
		}
		if key := b.Field("two"); !key.IsZero() {
			t.Fatalf("expected zero key after build")
		}
		if _, err := b.Build(); !errors.Is(err, ErrFrozen) {
			t.Fatalf("expected ErrFrozen, got %v", err)
		}
	})
}

package schema

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type signupValues struct {
	FirstName  string `form:"firstName" validate:"min=2,max=50" label:"First name" placeholder:"frog"`
	LastName   string `form:"lastName" validate:"min=2,max=50"`
	Email      string `validate:"required" pattern:"^[^@]+@[^@]+$" input:"email"`
	Internal   string `form:"-"`
	unexported string
}

func TestFromStruct_DerivesFields(t *testing.T) {
	s, err := FromStruct[signupValues]()
	if err != nil {
		t.Fatalf("from struct: %v", err)
	}

	if diff := cmp.Diff([]string{"firstName", "lastName", "email"}, s.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	first := MustSelect(s, func(v *signupValues) *string { return &v.FirstName })
	spec, err := s.Spec(first)
	if err != nil {
		t.Fatalf("spec: %v", err)
	}
	if spec.Label != "First name" || spec.Placeholder != "frog" {
		t.Fatalf("unexpected spec %+v", spec)
	}

	result, _ := s.ValidateField(first, "a")
	if result.Valid || result.Rule != RuleMinLength {
		t.Fatalf("expected min length failure, got %+v", result)
	}

	email := MustSelect(s, func(v *signupValues) *string { return &v.Email })
	if email.Name() != "email" {
		t.Fatalf("expected derived name email, got %q", email.Name())
	}
	result, _ = s.ValidateField(email, "nope")
	if result.Rule != RulePattern {
		t.Fatalf("expected pattern failure, got %+v", result)
	}
	emailSpec, _ := s.Spec(email)
	if emailSpec.InputType != "email" || !emailSpec.Required() {
		t.Fatalf("unexpected email spec %+v", emailSpec)
	}
}

func TestSelect_SkippedFieldIsUnknown(t *testing.T) {
	s := MustFromStruct[signupValues]()

	_, err := Select(s, func(v *signupValues) *string { return &v.Internal })
	if !IsUnknownField(err) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Internal") {
		t.Fatalf("expected field name in error, got %v", err)
	}
}

func TestSelect_RejectsForeignPointer(t *testing.T) {
	s := MustFromStruct[signupValues]()
	outside := "elsewhere"

	if _, err := Select(s, func(*signupValues) *string { return &outside }); err == nil {
		t.Fatalf("expected error for pointer outside the struct")
	}
}

func TestFromStruct_Errors(t *testing.T) {
	type badType struct {
		Age int `form:"age"`
	}
	if _, err := FromStruct[badType](); err == nil {
		t.Fatalf("expected error for non-string field")
	}

	type badRule struct {
		Name string `validate:"email"`
	}
	if _, err := FromStruct[badRule](); err == nil {
		t.Fatalf("expected error for unsupported rule")
	}

	if _, err := FromStruct[string](); err == nil {
		t.Fatalf("expected error for non-struct type")
	}
}

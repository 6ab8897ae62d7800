package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// SignupYAML is the two-field definition most tests start from.
const SignupYAML = `id: signup
title: Sign up
fields:
  - name: firstName
    label: First name
    placeholder: Ada
    minLength: 2
    maxLength: 50
  - name: lastName
    label: Last name
    minLength: 2
    maxLength: 50
`

// LoadDefinition reads a definition fixture from disk.
func LoadDefinition(t *testing.T, path string) schema.Definition {
	t.Helper()

	def, err := LoadDefinitionFromPath(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinitionFromPath is LoadDefinition for setup code without a
// testing.T.
func LoadDefinitionFromPath(path string) (schema.Definition, error) {
	if path == "" {
		return schema.Definition{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Definition{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Definition{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return schema.ParseDefinition(doc)
}

// SignupSchema compiles SignupYAML into a dynamic schema.
func SignupSchema(t *testing.T) *schema.Schema[schema.Dynamic] {
	t.Helper()

	doc, err := schema.NewDocument(schema.SourceFromFile("signup.yaml"), []byte(SignupYAML))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	def, err := schema.ParseDefinition(doc)
	if err != nil {
		t.Fatalf("parse definition: %v", err)
	}
	s, err := schema.Compile[schema.Dynamic](def)
	if err != nil {
		t.Fatalf("compile definition: %v", err)
	}
	return s
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file as a string.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written, so tests can assert they agree.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

package formbind

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/testsupport"
)

func writeSignup(t *testing.T) schema.Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signup.yaml")
	if err := os.WriteFile(path, []byte(testsupport.SignupYAML), 0o600); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	return schema.SourceFromFile(path)
}

func TestLoadSchema(t *testing.T) {
	def, s, err := LoadSchema(context.Background(), writeSignup(t))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	if def.Title != "Sign up" || s.ID() != "signup" || s.Len() != 2 {
		t.Fatalf("unexpected schema %q (%d fields), title %q", s.ID(), s.Len(), def.Title)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(context.Background(), writeSignup(t), map[string]string{"lastName": "L"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := string(html)
	for _, want := range []string{`<h2 class="fb-title">Sign up</h2>`, `value="L"`, `id="fb-last-name-error"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in:\n%s", want, out)
		}
	}
}

func TestRenderHTML_UnknownValue(t *testing.T) {
	_, err := RenderHTML(context.Background(), writeSignup(t), map[string]string{"bingBong": "x"})
	if !schema.IsUnknownField(err) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/field.tmpl"); err != nil {
		t.Fatalf("read field template: %v", err)
	}
}

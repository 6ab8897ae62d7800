package vanilla_test

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/vanilla"
)

func newRenderer(t *testing.T) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func signupView() render.View {
	return render.View{
		ID:     "form-1",
		Schema: "signup",
		Title:  "Sign up",
		Fields: []render.FieldView{
			{Name: "firstName", Label: "First name", Placeholder: "Ada", Type: "text", Value: "Al", State: "valid", MinLength: 2, MaxLength: 50},
			{Name: "lastName", Label: "Last name", Type: "text", Value: "D", State: "invalid", Error: "too short: must be at least 2 characters", MinLength: 2, MaxLength: 50},
		},
	}
}

func TestRenderField_ErrorFollowsInput(t *testing.T) {
	renderer := newRenderer(t)
	view := signupView()

	out, err := renderer.RenderField(context.Background(), view.Fields[1])
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	html := string(out)

	input := strings.Index(html, `<input class="fb-input" id="fb-last-name" name="lastName"`)
	errorAt := strings.Index(html, `<p class="fb-error" id="fb-last-name-error">too short: must be at least 2 characters</p>`)
	if input < 0 || errorAt < 0 {
		t.Fatalf("missing input or error markup:\n%s", html)
	}
	if errorAt < input {
		t.Fatalf("error must be rendered after the input:\n%s", html)
	}
	if !strings.Contains(html, `aria-invalid="true"`) || !strings.Contains(html, `fb-field--invalid`) {
		t.Fatalf("invalid state not reflected:\n%s", html)
	}
}

func TestRenderField_PropsSurface(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.RenderField(context.Background(), render.FieldView{Name: "firstName", Placeholder: "Ada", Value: ""})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	html := string(out)

	for _, want := range []string{`name="firstName"`, `placeholder="Ada"`, `type="text"`, `fb-field--clean`} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %s:\n%s", want, html)
		}
	}
	for _, unwanted := range []string{"<label", "fb-error", "aria-invalid"} {
		if strings.Contains(html, unwanted) {
			t.Fatalf("unexpected %s:\n%s", unwanted, html)
		}
	}
}

func TestRenderField_CleanHidesError(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.RenderField(context.Background(), render.FieldView{Name: "lastName", State: "clean", Error: "too short"})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if strings.Contains(string(out), "too short") {
		t.Fatalf("clean field must not show its error:\n%s", out)
	}
}

func TestRenderField_EscapesAndSanitizes(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.RenderField(context.Background(), render.FieldView{
		Name:  "bio",
		Label: `<em>Short</em> bio <script>alert(1)</script><a href="x">link</a>`,
		Value: `"><script>alert(2)</script>`,
	})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<em>Short</em> bio") {
		t.Fatalf("inline formatting should survive:\n%s", html)
	}
	if strings.Contains(html, "<script>") || strings.Contains(html, "<a href") {
		t.Fatalf("unsafe markup leaked:\n%s", html)
	}
}

func TestRenderField_PasswordNotEchoed(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.RenderField(context.Background(), render.FieldView{Name: "password", Type: "password", Value: "hunter2"})
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if strings.Contains(string(out), "hunter2") {
		t.Fatalf("password value leaked:\n%s", out)
	}
}

func TestRender_Form(t *testing.T) {
	renderer := newRenderer(t)

	out, err := renderer.Render(context.Background(), signupView(), render.RenderOptions{
		Action:      "/signup",
		SubmitLabel: "Create account",
		Hidden:      []render.HiddenField{render.CSRFToken("_csrf", "tok"), render.Hidden("", "skip")},
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			CSSVars: map[string]string{"--brand": "#123456", "color": "ignored"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`data-form-id="form-1"`,
		`method="POST"`,
		`action="/signup"`,
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		`--brand: #123456;`,
		`<h2 class="fb-title">Sign up</h2>`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<button type="submit">Create account</button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %s:\n%s", want, html)
		}
	}
	if strings.Contains(html, "color: ignored") {
		t.Fatalf("non custom-property vars must be dropped:\n%s", html)
	}
	if strings.Index(html, `name="firstName"`) > strings.Index(html, `name="lastName"`) {
		t.Fatalf("fields must keep schema order:\n%s", html)
	}
	if strings.Count(html, `<input type="hidden"`) != 1 {
		t.Fatalf("expected one hidden input:\n%s", html)
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != vanilla.Name || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %s %s", renderer.Name(), renderer.ContentType())
	}
}

package control

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/jsonview"
	"github.com/goliatone/go-formbind/pkg/schema"
)

func newRoot(t *testing.T, options ...RootOption) (*Root[signupForm], signupKeys) {
	t.Helper()
	s, keys := signupSchema(t)
	root, err := NewRoot(s, map[string]string{"firstName": "", "lastName": ""}, options...)
	if err != nil {
		t.Fatalf("new root: %v", err)
	}
	t.Cleanup(root.Close)
	return root, keys
}

func TestRoot_SignupScenario(t *testing.T) {
	var submitted form.Values
	root, keys := newRoot(t, WithSubmitHandler(func(_ context.Context, values form.Values) error {
		submitted = values
		return nil
	}))

	first := root.MustInput(keys.FirstName, Props{Placeholder: "First name"})
	last := root.MustInput(keys.LastName, Props{Placeholder: "Last name"})

	if err := first.Edit("Al"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if first.State() != StateValid {
		t.Fatalf("expected valid first name, got %s", first.State())
	}

	_, err := root.Submit(context.Background())
	failure, ok := form.AsSubmitError(err)
	if !ok {
		t.Fatalf("expected submit error, got %v", err)
	}
	if diff := cmp.Diff([]string{"lastName"}, failure.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if submitted != nil {
		t.Fatalf("handler must not run for invalid forms")
	}
	if last.State() != StateInvalid || !strings.Contains(last.HTML(), "too short") {
		t.Fatalf("last name should show its submit error, got %s:\n%s", last.State(), last.HTML())
	}
	if root.LastSubmitError() != failure {
		t.Fatalf("last submit error not recorded")
	}

	_ = last.Edit("Lovelace")
	values, err := root.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := form.Values{"firstName": "Al", "lastName": "Lovelace"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, submitted); diff != "" {
		t.Fatalf("handler values mismatch (-want +got):\n%s", diff)
	}
	if root.LastSubmitError() != nil {
		t.Fatalf("successful submit should clear the last error")
	}
}

func TestRoot_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	root, _ := newRoot(t, WithSubmitHandler(func(context.Context, form.Values) error { return boom }))
	_ = root.Edit("firstName", "Ada")
	_ = root.Edit("lastName", "Lovelace")

	if _, err := root.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestRoot_InputNamedFailsFast(t *testing.T) {
	root, _ := newRoot(t)

	_, err := root.InputNamed("bingBong", Props{})
	var unknown *schema.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if len(root.Inputs()) != 0 {
		t.Fatalf("nothing should be mounted for an unknown name")
	}
	if err := root.Edit("bingBong", "x"); !schema.IsUnknownField(err) {
		t.Fatalf("expected UnknownFieldError from Edit, got %v", err)
	}
}

func TestRoot_DuplicateInput(t *testing.T) {
	root, keys := newRoot(t)
	root.MustInput(keys.FirstName, Props{})
	if _, err := root.InputNamed("firstName", Props{}); err == nil {
		t.Fatalf("expected duplicate input error")
	}
}

func TestRoot_ComposeAllAndRender(t *testing.T) {
	root, keys := newRoot(t,
		WithTitle("Sign up"),
		WithRenderOptions(render.RenderOptions{
			Action: "/signup",
			Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
		}),
	)
	root.MustInput(keys.LastName, Props{})
	if err := root.ComposeAll(); err != nil {
		t.Fatalf("compose all: %v", err)
	}

	names := make([]string, 0, 2)
	for _, in := range root.Inputs() {
		names = append(names, in.Name())
	}
	if diff := cmp.Diff([]string{"lastName", "firstName"}, names); diff != "" {
		t.Fatalf("composition order mismatch (-want +got):\n%s", diff)
	}

	_ = root.Edit("firstName", "a")
	var buf bytes.Buffer
	if err := root.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		`<h2 class="fb-title">Sign up</h2>`,
		`action="/signup"`,
		`name="_csrf" value="tok"`,
		`<label class="fb-label" for="fb-first-name">First name</label>`,
		`value="a"`,
		`<p class="fb-error" id="fb-first-name-error">too short: must be at least 2 characters</p>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing %s:\n%s", want, html)
		}
	}
	if strings.Contains(html, "fb-last-name-error") {
		t.Fatalf("untouched field should not show an error:\n%s", html)
	}
}

func TestRoot_RenderWithJSON(t *testing.T) {
	root, _ := newRoot(t)
	_ = root.ComposeAll()

	var buf bytes.Buffer
	if err := root.RenderWith(context.Background(), jsonview.New(""), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `"name":"firstName"`) {
		t.Fatalf("unexpected json %s", buf.String())
	}
}

func TestRoot_OnRenderHook(t *testing.T) {
	var fields []string
	root, _ := newRoot(t, WithOnRender(func(evt RenderEvent) { fields = append(fields, evt.Field) }))
	_ = root.ComposeAll()
	_ = root.Edit("lastName", "Do")

	want := []string{"firstName", "lastName", "lastName"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("render hook mismatch (-want +got):\n%s", diff)
	}
}

func TestRoot_Close(t *testing.T) {
	root, keys := newRoot(t)
	in := root.MustInput(keys.FirstName, Props{})

	root.Close()
	root.Close()

	if in.State() != StateUnmounted {
		t.Fatalf("inputs must be unmounted on close")
	}
	if !root.Context().Closed() {
		t.Fatalf("context must be closed")
	}
	if _, err := root.Submit(context.Background()); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := root.Input(keys.LastName, Props{}); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := root.Render(context.Background(), &bytes.Buffer{}); !errors.Is(err, form.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNewRoot_RejectsUnknownDefaults(t *testing.T) {
	s, _ := signupSchema(t)
	if _, err := NewRoot(s, map[string]string{"bingBong": "x"}); !schema.IsUnknownField(err) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
}

package render_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formbind/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, render.View, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "vanilla"})
	registry.MustRegister(stubRenderer{name: "json"})

	if err := registry.Register(stubRenderer{name: "json"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name error")
	}

	fallback, err := registry.Get("")
	if err != nil || fallback.Name() != "vanilla" {
		t.Fatalf("expected first registered renderer as default, got %v, %v", fallback, err)
	}
	if err := registry.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := registry.Get(""); got.Name() != "json" {
		t.Fatalf("default not updated")
	}
	if err := registry.SetDefault("nope"); err == nil {
		t.Fatalf("expected error for unknown default")
	}
	if _, err := registry.Get("nope"); err == nil {
		t.Fatalf("expected not found error")
	}
	if got := registry.List(); len(got) != 2 || got[0] != "json" {
		t.Fatalf("unexpected list %v", got)
	}
	if !registry.Has("vanilla") || registry.Has("markdown") {
		t.Fatalf("unexpected Has results")
	}
}

func TestRenderOptionsDefaults(t *testing.T) {
	var opts render.RenderOptions
	if opts.MethodOrDefault() != "POST" || opts.SubmitLabelOrDefault() != "Submit" {
		t.Fatalf("unexpected defaults")
	}
	opts = render.RenderOptions{Method: "get", SubmitLabel: "Send"}
	if opts.MethodOrDefault() != "GET" || opts.SubmitLabelOrDefault() != "Send" {
		t.Fatalf("unexpected overrides")
	}
}

func TestFieldView_ShowError(t *testing.T) {
	view := render.View{Fields: []render.FieldView{
		{Name: "firstName", State: "invalid", Error: "too short"},
		{Name: "lastName", State: "clean", Error: "too short"},
	}}
	first, ok := view.Field("firstName")
	if !ok || !first.ShowError() {
		t.Fatalf("invalid field should show its error")
	}
	last, _ := view.Field("lastName")
	if last.ShowError() {
		t.Fatalf("clean field must hide its error")
	}
	if _, ok := view.Field("bingBong"); ok {
		t.Fatalf("unexpected field")
	}
}

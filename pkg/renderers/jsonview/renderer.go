// Package jsonview renders a form view as JSON for API clients and
// client-side runtimes that draw their own markup.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formbind/pkg/render"
)

// Name is the registry name of the JSON renderer.
const Name = "json"

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer. A non-empty indent pretty-prints the output.
func New(indent string) *Renderer {
	return &Renderer{indent: indent}
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

type payload struct {
	Form        render.View          `json:"form"`
	Action      string               `json:"action,omitempty"`
	Method      string               `json:"method"`
	SubmitLabel string               `json:"submitLabel"`
	Hidden      []render.HiddenField `json:"hidden,omitempty"`
	Theme       string               `json:"theme,omitempty"`
	Variant     string               `json:"variant,omitempty"`
}

// Render encodes the view. Password values are blanked.
func (r *Renderer) Render(_ context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	fields := make([]render.FieldView, len(view.Fields))
	for i, field := range view.Fields {
		if field.Type == "password" {
			field.Value = ""
		}
		if !field.ShowError() {
			field.Error = ""
		}
		fields[i] = field
	}
	view.Fields = fields

	out := payload{
		Form:        view,
		Action:      options.Action,
		Method:      options.MethodOrDefault(),
		SubmitLabel: options.SubmitLabelOrDefault(),
		Hidden:      options.Hidden,
	}
	if options.Theme != nil {
		out.Theme = options.Theme.Theme
		out.Variant = options.Theme.Variant
	}

	var (
		raw []byte
		err error
	)
	if r.indent != "" {
		raw, err = json.MarshalIndent(out, "", r.indent)
	} else {
		raw, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: encode view: %w", err)
	}
	return raw, nil
}

package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions carry per-request data that does not belong to the form
// state itself.
type RenderOptions struct {
	// Action is the form action URL. Empty posts back to the current URL.
	Action string
	// Method defaults to POST.
	Method string
	// SubmitLabel is the text of the submit button. Defaults to "Submit".
	SubmitLabel string
	// Hidden fields are emitted before the visible inputs. Their names are
	// never bound to the schema.
	Hidden []HiddenField
	// Theme, when set, contributes CSS variables and data attributes.
	Theme *theme.RendererConfig
}

// MethodOrDefault returns Method upper-cased, or POST when empty.
func (o RenderOptions) MethodOrDefault() string {
	switch o.Method {
	case "", "post", "POST":
		return "POST"
	case "get", "GET":
		return "GET"
	default:
		return o.Method
	}
}

// SubmitLabelOrDefault returns SubmitLabel or "Submit".
func (o RenderOptions) SubmitLabelOrDefault() string {
	if o.SubmitLabel == "" {
		return "Submit"
	}
	return o.SubmitLabel
}

package render

import (
	"context"
)

// Renderer turns a form View into a byte representation (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}

// FieldRenderer renders a single field. Controls re-render through it after
// every change, so implementations should not depend on the rest of the form.
type FieldRenderer interface {
	RenderField(ctx context.Context, field FieldView) ([]byte, error)
}

package template

import (
	"io"
)

// HTML marks a string as already-safe markup. Engines pass it through
// without escaping; everything else is escaped on output.
type HTML string

// Filter transforms a value inside a template expression. Returning HTML
// marks the output as safe.
type Filter func(input any, param any) (any, error)

// Renderer is the contract controls render through. Render accepts either a
// template name or inline template content; the rendered payload is returned
// and also written to every writer in out.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn Filter) error
	GlobalContext(data any) error
}

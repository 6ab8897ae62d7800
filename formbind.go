// Package formbind is the entry point for callers that want a form from a
// definition file without wiring the schema, form and control packages by
// hand.
package formbind

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"sort"
	"time"

	"github.com/goliatone/go-formbind/pkg/control"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// DefaultFetchTimeout bounds definition downloads made by NewLoader.
const DefaultFetchTimeout = 10 * time.Second

// RenderOptions aliases render.RenderOptions for callers of RenderHTML.
type RenderOptions = render.RenderOptions

// Values aliases form.Values.
type Values = form.Values

// NewLoader returns a definition loader that reads files and, unless
// overridden, HTTP(S) URLs with DefaultFetchTimeout.
func NewLoader(options ...schema.LoaderOption) *schema.Loader {
	base := []schema.LoaderOption{
		schema.WithHTTPClient(http.DefaultClient),
		schema.WithTimeout(DefaultFetchTimeout),
	}
	return schema.NewLoader(append(base, options...)...)
}

// LoadSchema loads the definition behind src and compiles it into a runtime
// schema.
func LoadSchema(ctx context.Context, src schema.Source, options ...schema.LoaderOption) (schema.Definition, *schema.Schema[schema.Dynamic], error) {
	def, err := schema.LoadDefinition(ctx, NewLoader(options...), src)
	if err != nil {
		return schema.Definition{}, nil, err
	}
	s, err := schema.Compile[schema.Dynamic](def)
	if err != nil {
		return schema.Definition{}, nil, err
	}
	return def, s, nil
}

// NewRoot mounts a form for def, seeded with the definition defaults and
// titled with the definition title.
func NewRoot(def schema.Definition, options ...control.RootOption) (*control.Root[schema.Dynamic], error) {
	s, err := schema.Compile[schema.Dynamic](def)
	if err != nil {
		return nil, err
	}
	base := []control.RootOption{control.WithTitle(def.Title)}
	return control.NewRoot(s, def.Defaults(), append(base, options...)...)
}

// RenderHTML loads src, applies values and returns the rendered form. It is
// the shortest path from a definition file to markup.
func RenderHTML(ctx context.Context, src schema.Source, values map[string]string, options ...control.RootOption) ([]byte, error) {
	def, err := schema.LoadDefinition(ctx, NewLoader(), src)
	if err != nil {
		return nil, err
	}
	root, err := NewRoot(def, options...)
	if err != nil {
		return nil, err
	}
	defer root.Close()
	if err := root.ComposeAll(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := root.Edit(name, values[name]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := root.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

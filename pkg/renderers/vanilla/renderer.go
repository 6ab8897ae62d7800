package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/render"
	rendertemplate "github.com/goliatone/go-formbind/pkg/render/template"
	"github.com/goliatone/go-formbind/pkg/render/template/pongo"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.Renderer
	idPrefix         string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = files
		}
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithIDPrefix changes the prefix of generated input ids (default "fb").
func WithIDPrefix(prefix string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			cfg.idPrefix = trimmed
		}
	}
}

// Renderer emits plain HTML with no client-side runtime. The error message
// of an invalid field is rendered immediately after its input.
type Renderer struct {
	templates rendertemplate.Renderer
	idPrefix  string
}

var (
	_ render.Renderer      = (*Renderer)(nil)
	_ render.FieldRenderer = (*Renderer)(nil)
)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), idPrefix: "fb"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer, idPrefix: cfg.idPrefix}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderField renders one field wrapper: label, input and error slot.
func (r *Renderer) RenderField(_ context.Context, field render.FieldView) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	out, err := r.templates.Render(fieldTemplate, r.fieldData(field))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render field %q: %w", field.Name, err)
	}
	return []byte(out), nil
}

// Render renders the whole form.
func (r *Renderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	var fields strings.Builder
	for _, field := range view.Fields {
		markup, err := r.RenderField(ctx, field)
		if err != nil {
			return nil, err
		}
		fields.Write(markup)
	}

	hidden := make([]any, 0, len(options.Hidden))
	for _, field := range sortedHidden(options.Hidden) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	data := classData()
	data["form_id"] = view.ID
	data["schema"] = view.Schema
	data["title"] = view.Title
	data["method"] = options.MethodOrDefault()
	data["action"] = options.Action
	data["submit_label"] = options.SubmitLabelOrDefault()
	data["hidden_fields"] = hidden
	data["fields_html"] = rendertemplate.HTML(fields.String())
	applyTheme(data, options.Theme)

	out, err := r.templates.Render(formTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) fieldData(field render.FieldView) map[string]any {
	inputType := field.Type
	if inputType == "" {
		inputType = "text"
	}
	data := classData()
	data["name"] = field.Name
	data["id"] = r.idPrefix + "-" + pongo.AttrID(field.Name)
	data["label"] = rendertemplate.HTML(SanitizeLabel(field.Label))
	data["placeholder"] = field.Placeholder
	data["type"] = inputType
	data["state"] = stateOrClean(field.State)
	data["required"] = field.Required
	data["min_length"] = field.MinLength
	data["max_length"] = field.MaxLength
	data["show_error"] = field.ShowError()
	data["error"] = field.Error
	// password values are never echoed back into markup
	if inputType == "password" {
		data["value"] = ""
	} else {
		data["value"] = field.Value
	}
	return data
}

func stateOrClean(state string) string {
	if state == "" {
		return "clean"
	}
	return state
}

func sortedHidden(fields []render.HiddenField) []render.HiddenField {
	out := make([]render.HiddenField, 0, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field.Name) != "" {
			out = append(out, field)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func applyTheme(data map[string]any, cfg *theme.RendererConfig) {
	if cfg == nil {
		return
	}
	data["theme_name"] = cfg.Theme
	data["theme_variant"] = cfg.Variant
	if style := cssVarsStyle(cfg.CSSVars); style != "" {
		data["theme_style"] = style
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {")
	for _, key := range keys {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	b.WriteString(" }")
	return b.String()
}

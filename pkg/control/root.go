package control

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// SubmitHandler receives values that passed validation.
type SubmitHandler func(ctx context.Context, values form.Values) error

// RootOption configures a Root.
type RootOption func(*rootConfig)

type rootConfig struct {
	formOptions   []form.Option
	renderer      render.Renderer
	fieldRenderer render.FieldRenderer
	renderOptions render.RenderOptions
	title         string
	handler       SubmitHandler
	onRender      func(RenderEvent)
}

// WithFormOptions forwards options to form.New.
func WithFormOptions(options ...form.Option) RootOption {
	return func(cfg *rootConfig) {
		cfg.formOptions = append(cfg.formOptions, options...)
	}
}

// WithRenderer selects the renderer for the whole form. When it also
// implements render.FieldRenderer it renders the inputs too.
func WithRenderer(renderer render.Renderer) RootOption {
	return func(cfg *rootConfig) {
		if renderer == nil {
			return
		}
		cfg.renderer = renderer
		if fields, ok := renderer.(render.FieldRenderer); ok && cfg.fieldRenderer == nil {
			cfg.fieldRenderer = fields
		}
	}
}

// WithFieldRenderer selects the renderer used by inputs.
func WithFieldRenderer(renderer render.FieldRenderer) RootOption {
	return func(cfg *rootConfig) {
		if renderer != nil {
			cfg.fieldRenderer = renderer
		}
	}
}

// WithRenderOptions sets the action, method, hidden fields and theme used by
// Render.
func WithRenderOptions(options render.RenderOptions) RootOption {
	return func(cfg *rootConfig) {
		cfg.renderOptions = options
	}
}

// WithTitle sets the form heading.
func WithTitle(title string) RootOption {
	return func(cfg *rootConfig) {
		cfg.title = title
	}
}

// WithSubmitHandler installs the handler Submit forwards valid values to.
func WithSubmitHandler(handler SubmitHandler) RootOption {
	return func(cfg *rootConfig) {
		cfg.handler = handler
	}
}

// WithOnRender installs a re-render hook on every composed input.
func WithOnRender(fn func(RenderEvent)) RootOption {
	return func(cfg *rootConfig) {
		cfg.onRender = chainRender(cfg.onRender, fn)
	}
}

// Root owns one form.Context and the inputs composed into it.
type Root[S any] struct {
	ctx      *form.Context[S]
	cfg      rootConfig
	inputs   []*TextInput[S]
	byName   map[string]*TextInput[S]
	closed   bool
	lastErr  *form.SubmitError
	renderer render.Renderer
}

// NewRoot mounts a form for s seeded with defaults.
func NewRoot[S any](s *schema.Schema[S], defaults map[string]string, options ...RootOption) (*Root[S], error) {
	var cfg rootConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.renderer == nil || cfg.fieldRenderer == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("control: default renderer: %w", err)
		}
		if cfg.renderer == nil {
			cfg.renderer = html
		}
		if cfg.fieldRenderer == nil {
			cfg.fieldRenderer = html
		}
	}

	ctx, err := form.New(s, defaults, cfg.formOptions...)
	if err != nil {
		return nil, err
	}
	return &Root[S]{
		ctx:      ctx,
		cfg:      cfg,
		byName:   make(map[string]*TextInput[S]),
		renderer: cfg.renderer,
	}, nil
}

// Context returns the owned form context.
func (r *Root[S]) Context() *form.Context[S] {
	return r.ctx
}

// Input composes and mounts an input for a typed key. Each field can be
// composed once.
func (r *Root[S]) Input(field schema.Field[S], props Props) (*TextInput[S], error) {
	if r.closed {
		return nil, form.ErrClosed
	}
	binder, err := form.Bind(r.ctx, field)
	if err != nil {
		return nil, err
	}
	return r.compose(binder, props)
}

// MustInput panics when Input fails.
func (r *Root[S]) MustInput(field schema.Field[S], props Props) *TextInput[S] {
	in, err := r.Input(field, props)
	if err != nil {
		panic(err)
	}
	return in
}

// InputNamed composes an input for a runtime name. Undeclared names fail
// with *schema.UnknownFieldError before anything is mounted.
func (r *Root[S]) InputNamed(name string, props Props) (*TextInput[S], error) {
	if r.closed {
		return nil, form.ErrClosed
	}
	binder, err := form.BindName(r.ctx, name)
	if err != nil {
		return nil, err
	}
	return r.compose(binder, props)
}

// ComposeAll adds an input, with props from the schema, for every declared
// field that has none yet, in schema order.
func (r *Root[S]) ComposeAll() error {
	for _, field := range r.ctx.Schema().Fields() {
		if _, ok := r.byName[field.Name()]; ok {
			continue
		}
		if _, err := r.Input(field, Props{}); err != nil {
			return err
		}
	}
	return nil
}

// Inputs returns the composed inputs in composition order.
func (r *Root[S]) Inputs() []*TextInput[S] {
	return append([]*TextInput[S](nil), r.inputs...)
}

// Lookup returns the input composed for name.
func (r *Root[S]) Lookup(name string) (*TextInput[S], bool) {
	in, ok := r.byName[name]
	return in, ok
}

// Edit forwards value to the input composed for name, or directly to the
// context when the field has no input.
func (r *Root[S]) Edit(name string, value string) error {
	if r.closed {
		return form.ErrClosed
	}
	if in, ok := r.byName[name]; ok {
		return in.Edit(value)
	}
	return r.ctx.SetValue(name, value)
}

// Submit validates every field. Invalid forms return the *form.SubmitError
// and do not reach the handler; valid values are passed to the handler and
// returned.
func (r *Root[S]) Submit(ctx context.Context) (form.Values, error) {
	if r.closed {
		return nil, form.ErrClosed
	}
	values, err := r.ctx.Submit()
	if err != nil {
		if failure, ok := form.AsSubmitError(err); ok {
			r.lastErr = failure
		}
		return nil, err
	}
	r.lastErr = nil
	if r.cfg.handler != nil {
		if err := r.cfg.handler(ctx, values); err != nil {
			return values, fmt.Errorf("control: submit handler: %w", err)
		}
	}
	return values, nil
}

// LastSubmitError returns the failure of the most recent Submit, if any.
func (r *Root[S]) LastSubmitError() *form.SubmitError {
	return r.lastErr
}

// View snapshots the form for a renderer.
func (r *Root[S]) View() render.View {
	view := render.View{
		ID:        r.ctx.ID(),
		Schema:    r.ctx.Schema().ID(),
		Title:     r.cfg.title,
		Fields:    make([]render.FieldView, 0, len(r.inputs)),
		Submitted: r.ctx.SubmitCount() > 0,
		Valid:     r.ctx.Valid(),
	}
	for _, in := range r.inputs {
		view.Fields = append(view.Fields, in.View())
	}
	return view
}

// Render writes the whole form with the configured renderer.
func (r *Root[S]) Render(ctx context.Context, w io.Writer) error {
	return r.RenderWith(ctx, r.renderer, w)
}

// RenderWith writes the form with renderer, for hosts that negotiate the
// output format per request.
func (r *Root[S]) RenderWith(ctx context.Context, renderer render.Renderer, w io.Writer) error {
	if r.closed {
		return form.ErrClosed
	}
	if renderer == nil {
		return fmt.Errorf("control: renderer is required")
	}
	out, err := renderer.Render(ctx, r.View(), r.cfg.renderOptions)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// RenderOptions returns the options Render uses.
func (r *Root[S]) RenderOptions() render.RenderOptions {
	return r.cfg.renderOptions
}

// Close unmounts every input, then closes the context.
func (r *Root[S]) Close() {
	if r.closed {
		return
	}
	r.closed = true
	for _, in := range r.inputs {
		in.Unmount()
	}
	r.ctx.Close()
}

func (r *Root[S]) compose(binder *form.Binder[S], props Props) (*TextInput[S], error) {
	name := binder.Name()
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("control: field %q already has an input", name)
	}
	in, err := NewTextInput(binder, r.cfg.fieldRenderer, props, OnRender(r.cfg.onRender))
	if err != nil {
		return nil, err
	}
	if err := in.Mount(); err != nil {
		return nil, err
	}
	r.inputs = append(r.inputs, in)
	r.byName[name] = in
	return in, nil
}

package control

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/schema"
)

var (
	// ErrUnmounted is returned by operations on an unmounted input.
	ErrUnmounted = errors.New("control: input is unmounted")
	// ErrNotMounted is returned by Edit before Mount.
	ErrNotMounted = errors.New("control: input is not mounted")
)

// TextInput renders one field. Its value and error are read through the
// binder on every render; the only state it keeps is the subscription and
// the last markup.
type TextInput[S any] struct {
	binder   *form.Binder[S]
	props    Props
	renderer render.FieldRenderer
	onRender func(RenderEvent)

	unsubscribe func()
	mounted     bool
	unmounted   bool
	renders     int
	markup      []byte
}

// InputOption configures a TextInput.
type InputOption func(*inputConfig)

type inputConfig struct {
	onRender func(RenderEvent)
}

// OnRender installs a hook called after every re-render.
func OnRender(fn func(RenderEvent)) InputOption {
	return func(cfg *inputConfig) {
		cfg.onRender = chainRender(cfg.onRender, fn)
	}
}

// NewTextInput builds an unmounted input for binder.
func NewTextInput[S any](binder *form.Binder[S], renderer render.FieldRenderer, props Props, options ...InputOption) (*TextInput[S], error) {
	if binder == nil {
		return nil, fmt.Errorf("control: binder is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("control: renderer is required for %q", binder.Name())
	}
	var cfg inputConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &TextInput[S]{
		binder:   binder,
		props:    withSpecDefaults(props, binder),
		renderer: renderer,
		onRender: cfg.onRender,
	}, nil
}

// Name returns the bound field name.
func (in *TextInput[S]) Name() string {
	return in.binder.Name()
}

// Props returns the resolved props.
func (in *TextInput[S]) Props() Props {
	return in.props
}

// Binder returns the bound accessor.
func (in *TextInput[S]) Binder() *form.Binder[S] {
	return in.binder
}

// Mount subscribes to the field and renders once. Mounting twice is a no-op.
func (in *TextInput[S]) Mount() error {
	if in.unmounted {
		return ErrUnmounted
	}
	if in.mounted {
		return nil
	}
	unsubscribe, err := in.binder.Subscribe(func(form.Change) { in.rerender() })
	if err != nil {
		return fmt.Errorf("control: mount %q: %w", in.Name(), err)
	}
	in.unsubscribe = unsubscribe
	in.mounted = true
	in.rerender()
	return nil
}

// Unmount removes the subscription before returning. The input cannot be
// mounted again.
func (in *TextInput[S]) Unmount() {
	if in.unmounted {
		return
	}
	if in.unsubscribe != nil {
		in.unsubscribe()
		in.unsubscribe = nil
	}
	in.mounted = false
	in.unmounted = true
	in.markup = nil
}

// Mounted reports whether the input is subscribed.
func (in *TextInput[S]) Mounted() bool {
	return in.mounted
}

// Edit forwards one user edit to the binder. The resulting notification
// re-renders the input before Edit returns.
func (in *TextInput[S]) Edit(value string) error {
	if in.unmounted {
		return ErrUnmounted
	}
	if !in.mounted {
		return ErrNotMounted
	}
	return in.binder.Set(value)
}

// State derives the display state from the bound field.
func (in *TextInput[S]) State() State {
	if in.unmounted {
		return StateUnmounted
	}
	ctx := in.binder.Context()
	switch {
	case in.binder.Error() != "":
		return StateInvalid
	case ctx.SubmitCount() > 0:
		return StateValid
	case !in.binder.Touched():
		return StateClean
	case ctx.Mode() == form.ModeOnSubmit:
		return StateDirty
	default:
		return StateValid
	}
}

// View returns the render state of the input.
func (in *TextInput[S]) View() render.FieldView {
	spec := in.binder.Spec()
	view := render.FieldView{
		Name:        in.Name(),
		Label:       in.props.Label,
		Placeholder: in.props.Placeholder,
		Type:        in.props.Type,
		Value:       in.binder.Get(),
		Error:       in.binder.Error(),
		State:       string(in.State()),
		Required:    spec.Required(),
	}
	for _, rule := range spec.Rules {
		n, ok := rule.Limit()
		if !ok {
			continue
		}
		if rule.Kind == schema.RuleMinLength {
			view.MinLength = n
		} else {
			view.MaxLength = n
		}
	}
	return view
}

// Render writes the current markup to w.
func (in *TextInput[S]) Render(w io.Writer) error {
	if in.unmounted {
		return ErrUnmounted
	}
	markup, err := in.renderer.RenderField(context.Background(), in.View())
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(markup))
	return err
}

// HTML returns the markup produced by the latest re-render.
func (in *TextInput[S]) HTML() string {
	return string(in.markup)
}

// Renders returns how many times the input re-rendered since mount.
func (in *TextInput[S]) Renders() int {
	return in.renders
}

func (in *TextInput[S]) rerender() {
	markup, err := in.renderer.RenderField(context.Background(), in.View())
	if err == nil {
		in.markup = markup
	}
	in.renders++
	if in.onRender != nil {
		in.onRender(RenderEvent{Field: in.Name(), State: in.State(), Renders: in.renders, Err: err})
	}
}

func withSpecDefaults[S any](props Props, binder *form.Binder[S]) Props {
	spec := binder.Spec()
	if props.Label == "" {
		props.Label = spec.Label
	}
	if props.Placeholder == "" {
		props.Placeholder = spec.Placeholder
	}
	if props.Type == "" {
		props.Type = spec.InputType
	}
	if props.Type == "" {
		props.Type = "text"
	}
	return props
}

func chainRender(hooks ...func(RenderEvent)) func(RenderEvent) {
	var active []func(RenderEvent)
	for _, hook := range hooks {
		if hook != nil {
			active = append(active, hook)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(evt RenderEvent) {
		for _, hook := range active {
			hook(evt)
		}
	}
}

package form

import (
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Binder is a name-checked accessor for one field of a Context. It does not
// own the value and must not be used after the Context is closed.
type Binder[S any] struct {
	ctx   *Context[S]
	field schema.Field[S]
	spec  schema.FieldSpec
}

// Bind returns the binder for a typed key. S is inferred from the key, so
// binding a field the schema never declared, or a key from a different
// schema type, is a compile error. A key from another schema instance of the
// same type fails with *schema.UnknownFieldError.
func Bind[S any](ctx *Context[S], field schema.Field[S]) (*Binder[S], error) {
	if ctx == nil {
		return nil, ErrClosed
	}
	if err := ctx.check(field); err != nil {
		return nil, err
	}
	spec, err := ctx.schema.Spec(field)
	if err != nil {
		return nil, err
	}
	return &Binder[S]{ctx: ctx, field: field, spec: spec}, nil
}

// BindName returns the binder for a runtime name. Undeclared names fail
// immediately with *schema.UnknownFieldError.
func BindName[S any](ctx *Context[S], name string) (*Binder[S], error) {
	if ctx == nil {
		return nil, ErrClosed
	}
	if err := ctx.resolve(name); err != nil {
		return nil, err
	}
	field, err := ctx.schema.Resolve(name)
	if err != nil {
		return nil, err
	}
	return Bind(ctx, field)
}

// MustBind panics when Bind fails. Intended for init-time wiring.
func MustBind[S any](ctx *Context[S], field schema.Field[S]) *Binder[S] {
	b, err := Bind(ctx, field)
	if err != nil {
		panic(err)
	}
	return b
}

// Name returns the bound field name.
func (b *Binder[S]) Name() string {
	return b.field.Name()
}

// Field returns the bound key.
func (b *Binder[S]) Field() schema.Field[S] {
	return b.field
}

// Spec returns the bound field declaration.
func (b *Binder[S]) Spec() schema.FieldSpec {
	return b.spec
}

// Context returns the owning form.
func (b *Binder[S]) Context() *Context[S] {
	return b.ctx
}

// Get returns the current value; empty once the Context is closed.
func (b *Binder[S]) Get() string {
	if b.ctx.closed {
		return ""
	}
	return b.ctx.values[b.field.Name()]
}

// Set forwards value to the Context.
func (b *Binder[S]) Set(value string) error {
	return b.ctx.Set(b.field, value)
}

// Error returns the current error message, empty when valid.
func (b *Binder[S]) Error() string {
	if b.ctx.closed {
		return ""
	}
	return b.ctx.errors[b.field.Name()]
}

// Touched reports whether the field was edited.
func (b *Binder[S]) Touched() bool {
	return b.ctx.touched[b.field.Name()]
}

// Subscribe registers fn for changes to the bound field.
func (b *Binder[S]) Subscribe(fn Listener) (func(), error) {
	if b.ctx.closed {
		return nil, ErrClosed
	}
	return b.ctx.Subscribe(b.field.Name(), fn)
}

// Result validates the current value without recording it.
func (b *Binder[S]) Result() (schema.Result, error) {
	if b.ctx.closed {
		return schema.Result{}, ErrClosed
	}
	return b.ctx.schema.ValidateField(b.field, b.ctx.values[b.field.Name()])
}

// Package form holds the mutable state of one mounted form: current values,
// per-field validation errors, touched flags and change subscribers.
//
// A Context is created from a schema when a form mounts and closed when it
// unmounts. Field access goes through a Binder, obtained either from a typed
// key (Bind), which only compiles for fields the schema declared, or from a
// runtime name (BindName), which fails fast with *schema.UnknownFieldError.
//
// Contexts are not safe for concurrent use. Every mutation runs synchronously
// on the goroutine that owns the form, listeners are invoked in registration
// order before SetValue returns, and no call blocks.
package form

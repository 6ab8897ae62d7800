// Package control provides the renderable side of a form: TextInput binds one
// field through a form.Binder and re-renders on every change notification;
// Root owns a form.Context, composes inputs and wires submit handling.
//
// Controls receive their binder and renderer explicitly. Nothing is looked up
// from ambient state, so tests can mount isolated forms side by side.
package control

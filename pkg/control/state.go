package control

// State is the display state of a TextInput.
type State string

const (
	// StateClean: no edits yet, no error shown.
	StateClean State = "clean"
	// StateDirty: edited, but validation is deferred (form.ModeOnSubmit).
	StateDirty State = "dirty"
	// StateInvalid: the latest value fails validation; the error is shown.
	StateInvalid State = "invalid"
	// StateValid: the latest value passed validation.
	StateValid State = "valid"
	// StateUnmounted is terminal.
	StateUnmounted State = "unmounted"
)

// Props are the markup-facing properties of an input. Empty values fall back
// to the schema declaration.
type Props struct {
	Label       string
	Placeholder string
	// Type is the HTML input type: text (default), password, email, ...
	Type string
}

// RenderEvent is passed to OnRender hooks after each re-render.
type RenderEvent struct {
	Field   string
	State   State
	Renders int
	Err     error
}

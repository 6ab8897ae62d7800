package form

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/pkg/schema"
)

// Values is a snapshot of field values keyed by name.
type Values map[string]string

// Get returns the value stored for name.
func (v Values) Get(name string) string {
	return v[name]
}

func (v Values) clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// ChangeSource tells listeners what produced a notification.
type ChangeSource string

const (
	SourceEdit   ChangeSource = "edit"
	SourceSubmit ChangeSource = "submit"
	SourceReset  ChangeSource = "reset"
)

// Change is delivered to listeners of one field.
type Change struct {
	Field  string
	Value  string
	Source ChangeSource
	// Validated is false when the value was stored without running rules
	// (ModeOnSubmit before the first submit, and resets).
	Validated bool
	Result    schema.Result
}

// Listener is notified of changes to one field.
type Listener func(Change)

type subscription struct {
	id uint64
	fn Listener
}

// Context is the per-form store of values, errors, touched flags and
// listeners. See the package documentation for the threading model.
type Context[S any] struct {
	id       string
	schema   *schema.Schema[S]
	mode     Mode
	observer Observer

	defaults  Values
	values    Values
	errors    map[string]string
	touched   map[string]bool
	listeners map[string][]subscription
	nextSubID uint64
	submits   int
	closed    bool
}

// New mounts a form for s. Defaults missing a declared key start as the empty
// string; defaults naming an undeclared key fail with *schema.UnknownFieldError.
func New[S any](s *schema.Schema[S], defaults map[string]string, options ...Option) (*Context[S], error) {
	if s == nil {
		return nil, fmt.Errorf("form: schema is required")
	}

	cfg := config{mode: ModeOnChange}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.mode != ModeOnChange && cfg.mode != ModeOnSubmit {
		return nil, fmt.Errorf("form: unknown validation mode %q", cfg.mode)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	c := &Context[S]{
		id:        cfg.id,
		schema:    s,
		mode:      cfg.mode,
		observer:  cfg.observer,
		errors:    make(map[string]string),
		touched:   make(map[string]bool),
		listeners: make(map[string][]subscription),
	}

	seeded, err := c.seed(defaults)
	if err != nil {
		return nil, err
	}
	c.defaults = seeded
	c.values = seeded.clone()

	c.emit(Event{Kind: EventMount})
	return c, nil
}

// ID returns the mount identifier used to correlate observer events.
func (c *Context[S]) ID() string {
	return c.id
}

// Schema returns the schema the form was mounted with.
func (c *Context[S]) Schema() *schema.Schema[S] {
	return c.schema
}

// Mode returns the validation mode.
func (c *Context[S]) Mode() Mode {
	return c.mode
}

// GetValue returns the current value of name.
func (c *Context[S]) GetValue(name string) (string, error) {
	if err := c.resolve(name); err != nil {
		return "", err
	}
	return c.values[name], nil
}

// SetValue stores value for name, revalidates that field alone (subject to
// the mode), updates the error map and notifies the field's listeners before
// returning.
func (c *Context[S]) SetValue(name, value string) error {
	if err := c.resolve(name); err != nil {
		return err
	}

	c.values[name] = value
	c.touched[name] = true

	change := Change{Field: name, Value: value, Source: SourceEdit}
	if c.validating() {
		result, err := c.schema.Validate(name, value)
		if err != nil {
			return err
		}
		c.record(result)
		change.Validated = true
		change.Result = result
	} else {
		change.Result = schema.Result{Field: name, Valid: true}
	}

	c.emit(Event{Kind: EventChange, Field: name, Valid: change.Result.Valid, Message: change.Result.Message})
	c.notify(name, change)
	return nil
}

// Value is GetValue for a typed key.
func (c *Context[S]) Value(field schema.Field[S]) (string, error) {
	if err := c.check(field); err != nil {
		return "", err
	}
	return c.values[field.Name()], nil
}

// Set is SetValue for a typed key.
func (c *Context[S]) Set(field schema.Field[S], value string) error {
	if err := c.check(field); err != nil {
		return err
	}
	return c.SetValue(field.Name(), value)
}

// Error returns the current error message for name, empty when valid or not
// yet validated.
func (c *Context[S]) Error(name string) (string, error) {
	if err := c.resolve(name); err != nil {
		return "", err
	}
	return c.errors[name], nil
}

// Errors returns a copy of the error map.
func (c *Context[S]) Errors() map[string]string {
	out := make(map[string]string, len(c.errors))
	for key, value := range c.errors {
		out[key] = value
	}
	return out
}

// Values returns a copy of the current values.
func (c *Context[S]) Values() Values {
	return c.values.clone()
}

// Touched reports whether name was edited since mount or the last reset.
func (c *Context[S]) Touched(name string) (bool, error) {
	if err := c.resolve(name); err != nil {
		return false, err
	}
	return c.touched[name], nil
}

// Valid reports whether the error map is empty. It reflects incremental
// validation only; Submit is the authoritative check.
func (c *Context[S]) Valid() bool {
	return len(c.errors) == 0
}

// SubmitCount returns how many times Submit ran.
func (c *Context[S]) SubmitCount() int {
	return c.submits
}

// Subscribe registers fn for changes to name. The returned function removes
// the registration and may be called more than once.
func (c *Context[S]) Subscribe(name string, fn Listener) (func(), error) {
	if err := c.resolve(name); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("form: listener for %q is nil", name)
	}

	c.nextSubID++
	id := c.nextSubID
	c.listeners[name] = append(c.listeners[name], subscription{id: id, fn: fn})
	c.emit(Event{Kind: EventSubscribe, Field: name})

	done := false
	return func() {
		if done {
			return
		}
		done = true
		c.unsubscribe(name, id)
	}, nil
}

// Listeners returns how many listeners are registered for name.
func (c *Context[S]) Listeners(name string) (int, error) {
	if err := c.resolve(name); err != nil {
		return 0, err
	}
	return len(c.listeners[name]), nil
}

// Reset reseeds the form. A nil map restores the mount defaults. Errors,
// touched flags and the submit count are cleared and every listener is
// notified.
func (c *Context[S]) Reset(values map[string]string) error {
	if c.closed {
		return ErrClosed
	}
	next := c.defaults.clone()
	if values != nil {
		seeded, err := c.seed(values)
		if err != nil {
			return err
		}
		next = seeded
	}

	c.values = next
	c.errors = make(map[string]string)
	c.touched = make(map[string]bool)
	c.submits = 0

	c.emit(Event{Kind: EventReset})
	for _, name := range c.schema.Keys() {
		c.notify(name, Change{
			Field:  name,
			Value:  c.values[name],
			Source: SourceReset,
			Result: schema.Result{Field: name, Valid: true},
		})
	}
	return nil
}

// Close unmounts the form: listeners are dropped and later operations return
// ErrClosed. Close is idempotent.
func (c *Context[S]) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.listeners = make(map[string][]subscription)
	c.emit(Event{Kind: EventClose})
}

// Closed reports whether Close ran.
func (c *Context[S]) Closed() bool {
	return c.closed
}

func (c *Context[S]) seed(values map[string]string) (Values, error) {
	out := make(Values, c.schema.Len())
	for _, name := range c.schema.Keys() {
		out[name] = ""
	}
	for name, value := range values {
		if !c.schema.Has(name) {
			c.emit(Event{Kind: EventUnknownField, Field: name})
			return nil, &schema.UnknownFieldError{Field: name, Known: c.schema.Keys()}
		}
		out[name] = value
	}
	return out, nil
}

func (c *Context[S]) validating() bool {
	return c.mode == ModeOnChange || c.submits > 0
}

func (c *Context[S]) record(result schema.Result) {
	if result.Valid {
		delete(c.errors, result.Field)
		return
	}
	c.errors[result.Field] = result.Message
}

func (c *Context[S]) resolve(name string) error {
	if c.closed {
		return ErrClosed
	}
	if _, err := c.schema.Resolve(name); err != nil {
		c.emit(Event{Kind: EventUnknownField, Field: name})
		return err
	}
	return nil
}

func (c *Context[S]) check(field schema.Field[S]) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.schema.Check(field); err != nil {
		c.emit(Event{Kind: EventUnknownField, Field: field.Name()})
		return err
	}
	return nil
}

func (c *Context[S]) notify(name string, change Change) {
	subs := c.listeners[name]
	if len(subs) == 0 {
		return
	}
	// listeners may unsubscribe while being notified
	snapshot := append([]subscription(nil), subs...)
	for _, sub := range snapshot {
		if c.subscribed(name, sub.id) {
			sub.fn(change)
		}
	}
}

func (c *Context[S]) subscribed(name string, id uint64) bool {
	for _, sub := range c.listeners[name] {
		if sub.id == id {
			return true
		}
	}
	return false
}

func (c *Context[S]) unsubscribe(name string, id uint64) {
	subs := c.listeners[name]
	for idx, sub := range subs {
		if sub.id != id {
			continue
		}
		c.listeners[name] = append(subs[:idx:idx], subs[idx+1:]...)
		if len(c.listeners[name]) == 0 {
			delete(c.listeners, name)
		}
		c.emit(Event{Kind: EventUnsubscribe, Field: name})
		return
	}
}

func (c *Context[S]) emit(evt Event) {
	if c.observer == nil {
		return
	}
	evt.FormID = c.id
	evt.Schema = c.schema.ID()
	c.observer(evt)
}

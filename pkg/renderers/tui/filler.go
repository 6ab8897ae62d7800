package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formbind/pkg/control"
	"github.com/goliatone/go-formbind/pkg/form"
)

// Filler drives a control.Root from a terminal: every composed input is
// prompted in order, answers go through TextInput.Edit, and a field is asked
// again while it carries an error.
type Filler struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	confirm      bool
	maxAttempts  int
}

// New constructs a Filler with defaults (survey driver, JSON output).
func New(options ...Option) *Filler {
	f := &Filler{
		outputFormat: OutputFormatJSON,
		theme:        Theme{ErrorPrefix: "Invalid"},
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver()
	}
	return f
}

// ContentType reports the serialization format used by Serialize.
func (f *Filler) ContentType() string {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Fill prompts every input of root and submits. Fields reported by a failed
// submit are prompted again, so Fill only returns values that passed
// validation. Roots without inputs get one per schema field.
func Fill[S any](ctx context.Context, f *Filler, root *control.Root[S]) (form.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if f == nil || f.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if root == nil {
		return nil, errors.New("tui: form root is required")
	}
	if len(root.Inputs()) == 0 {
		if err := root.ComposeAll(); err != nil {
			return nil, err
		}
	}

	pending := root.Inputs()
	for {
		for _, in := range pending {
			if err := promptInput(ctx, f, in); err != nil {
				return nil, err
			}
		}

		if f.confirm {
			ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrDeclined
			}
		}

		values, err := root.Submit(ctx)
		if err == nil {
			return values, nil
		}
		failure, ok := form.AsSubmitError(err)
		if !ok {
			return nil, err
		}
		pending = pending[:0]
		for _, name := range failure.Fields {
			in, ok := root.Lookup(name)
			if !ok {
				// fields without an input cannot be fixed interactively
				return nil, err
			}
			f.info(ctx, f.theme.ErrorPrefix, fmt.Sprintf("%s: %s", displayLabel(in.Props(), name), failure.Message(name)))
			pending = append(pending, in)
		}
	}
}

func promptInput[S any](ctx context.Context, f *Filler, in *control.TextInput[S]) error {
	props := in.Props()
	label := displayLabel(props, in.Name())
	binder := in.Binder()

	for attempt := 1; ; attempt++ {
		answer, err := ask(ctx, f.driver, props, label, binder.Get())
		if err != nil {
			return err
		}
		if err := in.Edit(answer); err != nil {
			return err
		}
		msg := binder.Error()
		if msg == "" {
			return nil
		}
		f.info(ctx, f.theme.ErrorPrefix, fmt.Sprintf("%s: %s", label, msg))
		if f.maxAttempts > 0 && attempt >= f.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, in.Name())
		}
	}
}

func ask(ctx context.Context, driver PromptDriver, props control.Props, label, current string) (string, error) {
	help := props.Placeholder
	switch props.Type {
	case "password":
		return driver.Password(ctx, InputConfig{Message: label, Help: help})
	case "textarea":
		return driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: help})
	default:
		return driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help})
	}
}

func (f *Filler) info(ctx context.Context, prefix, msg string) {
	if prefix != "" {
		msg = prefix + " " + msg
	}
	_ = f.driver.Info(ctx, msg)
}

// Serialize encodes values in the configured output format.
func (f *Filler) Serialize(values form.Values) ([]byte, error) {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for name, value := range values {
			encoded.Set(name, value)
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		var b strings.Builder
		for _, name := range names {
			fmt.Fprintf(&b, "%s=%s\n", name, values[name])
		}
		return []byte(b.String()), nil
	default:
		return json.Marshal(map[string]string(values))
	}
}

func displayLabel(props control.Props, name string) string {
	if props.Label != "" {
		return props.Label
	}
	return name
}

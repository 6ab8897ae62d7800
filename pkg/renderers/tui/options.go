package tui

import (
	"fmt"
	"strings"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one name=value line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization format used by Serialize.
func WithOutputFormat(format OutputFormat) Option {
	return func(f *Filler) {
		if format != "" {
			f.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// WithConfirmSubmit asks for confirmation before submitting.
func WithConfirmSubmit(confirm bool) Option {
	return func(f *Filler) {
		f.confirm = confirm
	}
}

// WithMaxAttempts bounds how many times one field is prompted in a row.
// Zero means unbounded.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n >= 0 {
			f.maxAttempts = n
		}
	}
}

// ParseOutputFormat converts flag values into an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatFormURLEncoded, "urlencoded":
		return OutputFormatFormURLEncoded, nil
	case OutputFormatPrettyText, "text":
		return OutputFormatPrettyText, nil
	default:
		return "", fmt.Errorf("tui: unknown output format %q", raw)
	}
}

package form

import (
	"fmt"
	"strings"
)

// Mode selects when SetValue revalidates.
type Mode string

const (
	// ModeOnChange validates the edited field on every SetValue.
	ModeOnChange Mode = "onChange"
	// ModeOnSubmit defers validation until the first Submit, then behaves
	// like ModeOnChange.
	ModeOnSubmit Mode = "onSubmit"
)

// ParseMode converts configuration strings into a Mode.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "onchange", "change":
		return ModeOnChange, nil
	case "onsubmit", "submit":
		return ModeOnSubmit, nil
	default:
		return "", fmt.Errorf("form: unknown validation mode %q", raw)
	}
}

// Option configures a Context.
type Option func(*config)

type config struct {
	id       string
	mode     Mode
	observer Observer
}

// WithID pins the mount identifier. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			cfg.id = trimmed
		}
	}
}

// WithMode selects the validation mode.
func WithMode(mode Mode) Option {
	return func(cfg *config) {
		if mode != "" {
			cfg.mode = mode
		}
	}
}

// WithObserver installs an observability hook. Multiple calls chain.
func WithObserver(observer Observer) Option {
	return func(cfg *config) {
		cfg.observer = Chain(cfg.observer, observer)
	}
}

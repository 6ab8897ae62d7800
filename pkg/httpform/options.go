package httpform

import (
	"log/slog"
	"net/http"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbind/pkg/control"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
)

// DefaultMaxBodyBytes caps posted form bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// TokenFunc returns the CSRF token expected for a request.
type TokenFunc func(*http.Request) string

// Option configures a Handler.
type Option func(*settings)

type settings struct {
	title       string
	action      string
	submitLabel string
	mode        form.Mode
	observer    form.Observer
	logger      *slog.Logger
	registry    *render.Registry
	fields      render.FieldRenderer
	onSubmit    control.SubmitHandler
	redirect    string
	csrfField   string
	csrfToken   TokenFunc
	theme       *theme.RendererConfig
	maxBody     int64
}

// WithTitle sets the rendered heading.
func WithTitle(title string) Option {
	return func(s *settings) { s.title = title }
}

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(s *settings) { s.action = action }
}

// WithSubmitLabel sets the submit button text.
func WithSubmitLabel(label string) Option {
	return func(s *settings) { s.submitLabel = label }
}

// WithMode sets the validation mode of every mounted form.
func WithMode(mode form.Mode) Option {
	return func(s *settings) { s.mode = mode }
}

// WithObserver receives the lifecycle events of every mounted form.
func WithObserver(observer form.Observer) Option {
	return func(s *settings) { s.observer = form.Chain(s.observer, observer) }
}

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry selects the renderers available for content negotiation.
// The registry default serves browsers.
func WithRegistry(registry *render.Registry) Option {
	return func(s *settings) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithFieldRenderer sets the renderer used for individual inputs.
func WithFieldRenderer(renderer render.FieldRenderer) Option {
	return func(s *settings) {
		if renderer != nil {
			s.fields = renderer
		}
	}
}

// WithSubmitHandler receives validated values.
func WithSubmitHandler(handler control.SubmitHandler) Option {
	return func(s *settings) { s.onSubmit = handler }
}

// WithRedirect answers successful browser submits with 303 See Other to
// location. Without it successful submits echo the values as JSON.
func WithRedirect(location string) Option {
	return func(s *settings) { s.redirect = location }
}

// WithCSRF emits token(r) as hidden field name and rejects posts whose
// field does not match.
func WithCSRF(name string, token TokenFunc) Option {
	return func(s *settings) {
		s.csrfField = name
		s.csrfToken = token
	}
}

// WithTheme attaches theme variables to rendered forms.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *settings) { s.theme = cfg }
}

// WithMaxBodyBytes caps the posted body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

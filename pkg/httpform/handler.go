// Package httpform serves a schema-backed form over HTTP. Every request
// mounts its own control.Root, so no form state is shared between requests.
package httpform

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formbind/pkg/control"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/jsonview"
	"github.com/goliatone/go-formbind/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// Handler renders a form on GET and binds, validates and submits it on POST.
type Handler[S any] struct {
	schema   *schema.Schema[S]
	defaults map[string]string
	cfg      settings
	router   chi.Router
}

// New builds a Handler. Without WithRegistry the vanilla HTML renderer is
// the default and the JSON renderer is available through negotiation.
func New[S any](s *schema.Schema[S], defaults map[string]string, options ...Option) (*Handler[S], error) {
	if s == nil {
		return nil, errors.New("httpform: schema is required")
	}
	cfg := settings{
		mode:    form.ModeOnChange,
		logger:  slog.Default(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.registry == nil || cfg.fields == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("httpform: html renderer: %w", err)
		}
		if cfg.fields == nil {
			cfg.fields = html
		}
		if cfg.registry == nil {
			cfg.registry = render.NewRegistry()
			cfg.registry.MustRegister(html)
			cfg.registry.MustRegister(jsonview.New(""))
		}
	}

	h := &Handler[S]{schema: s, defaults: defaults, cfg: cfg}
	r := chi.NewRouter()
	r.Get("/", h.show)
	r.Post("/", h.submit)
	h.router = r
	return h, nil
}

// Routes exposes the router so hosts can mount it under a prefix.
func (h *Handler[S]) Routes() chi.Router {
	return h.router
}

func (h *Handler[S]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler[S]) show(w http.ResponseWriter, r *http.Request) {
	renderer, err := h.negotiate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}
	root, err := h.mount(r, renderer)
	if err != nil {
		h.fail(w, r, "mount form", err)
		return
	}
	defer root.Close()

	h.write(w, r, root, renderer, http.StatusOK)
}

func (h *Handler[S]) submit(w http.ResponseWriter, r *http.Request) {
	renderer, err := h.negotiate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotAcceptable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.maxBody)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "httpform: form body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "httpform: malformed form body", http.StatusBadRequest)
		return
	}
	if !h.validToken(r) {
		http.Error(w, "httpform: invalid csrf token", http.StatusForbidden)
		return
	}

	root, err := h.mount(r, renderer)
	if err != nil {
		h.fail(w, r, "mount form", err)
		return
	}
	defer root.Close()

	hidden := render.HiddenNames(root.RenderOptions().Hidden)
	names := make([]string, 0, len(r.PostForm))
	for name := range r.PostForm {
		if _, skip := hidden[name]; !skip {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := root.Edit(name, r.PostForm.Get(name)); err != nil {
			var unknown *schema.UnknownFieldError
			if errors.As(err, &unknown) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			h.fail(w, r, "bind field", err)
			return
		}
	}

	values, err := root.Submit(r.Context())
	if err != nil {
		if _, invalid := form.AsSubmitError(err); invalid {
			h.write(w, r, root, renderer, http.StatusUnprocessableEntity)
			return
		}
		h.fail(w, r, "submit", err)
		return
	}

	if h.cfg.redirect != "" && !wantsJSON(r, renderer) {
		http.Redirect(w, r, h.cfg.redirect, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{"values": values}); err != nil {
		h.cfg.logger.Error("httpform: encode values", "error", err)
	}
}

func (h *Handler[S]) mount(r *http.Request, renderer render.Renderer) (*control.Root[S], error) {
	opts := render.RenderOptions{
		Action:      h.cfg.action,
		SubmitLabel: h.cfg.submitLabel,
		Theme:       h.cfg.theme,
	}
	if h.cfg.csrfField != "" && h.cfg.csrfToken != nil {
		opts.Hidden = append(opts.Hidden, render.CSRFToken(h.cfg.csrfField, h.cfg.csrfToken(r)))
	}

	root, err := control.NewRoot(h.schema, h.defaults,
		control.WithFormOptions(form.WithMode(h.cfg.mode), form.WithObserver(h.cfg.observer)),
		control.WithRenderer(renderer),
		control.WithFieldRenderer(h.cfg.fields),
		control.WithRenderOptions(opts),
		control.WithTitle(h.cfg.title),
		control.WithSubmitHandler(h.cfg.onSubmit),
	)
	if err != nil {
		return nil, err
	}
	if err := root.ComposeAll(); err != nil {
		root.Close()
		return nil, err
	}
	return root, nil
}

func (h *Handler[S]) write(w http.ResponseWriter, r *http.Request, root *control.Root[S], renderer render.Renderer, status int) {
	out, err := renderer.Render(r.Context(), root.View(), root.RenderOptions())
	if err != nil {
		h.fail(w, r, "render form", err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		h.cfg.logger.Error("httpform: write response", "error", err)
	}
}

// negotiate picks the renderer named by ?format=, then a JSON renderer
// when the client accepts JSON, then the registry default.
func (h *Handler[S]) negotiate(r *http.Request) (render.Renderer, error) {
	if name := r.URL.Query().Get("format"); name != "" {
		return h.cfg.registry.Get(name)
	}
	if acceptsJSON(r) && h.cfg.registry.Has(jsonview.Name) {
		return h.cfg.registry.Get(jsonview.Name)
	}
	return h.cfg.registry.Get("")
}

func (h *Handler[S]) validToken(r *http.Request) bool {
	if h.cfg.csrfField == "" || h.cfg.csrfToken == nil {
		return true
	}
	want := h.cfg.csrfToken(r)
	got := r.PostForm.Get(h.cfg.csrfField)
	return want != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func (h *Handler[S]) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.cfg.logger.Error("httpform: "+op, "error", err, "path", r.URL.Path)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func wantsJSON(r *http.Request, renderer render.Renderer) bool {
	return strings.HasPrefix(renderer.ContentType(), "application/json") || acceptsJSON(r)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/httpform"
	"github.com/goliatone/go-formbind/pkg/metrics"
)

type serveFlags struct {
	addr     string
	title    string
	redirect string
}

func newServeCmd(a *app) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP",
		Long:  `Serves the form on / (GET renders, POST validates and submits) and Prometheus metrics on the configured metrics path.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := newServeHandler(cmd.Context(), a, f, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			addr := pick(f.addr, a.cfg.Addr)
			return serve(cmd.Context(), a, &http.Server{Addr: addr, Handler: handler})
		},
	}
	cmd.Flags().StringVarP(&f.addr, "addr", "a", "", "listen address (env FORMBIND_ADDR)")
	cmd.Flags().StringVar(&f.title, "title", "", "form heading (defaults to the definition title)")
	cmd.Flags().StringVar(&f.redirect, "redirect", "", "redirect browsers here after a successful submit")
	return cmd
}

// newServeHandler wires the form handler and the metrics endpoint.
func newServeHandler(ctx context.Context, a *app, f *serveFlags, reg *prometheus.Registry) (http.Handler, error) {
	def, s, err := a.compile(ctx)
	if err != nil {
		return nil, err
	}

	collector := metrics.New(metrics.DefaultNamespace)
	if err := collector.Register(reg); err != nil {
		return nil, err
	}

	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}

	// the token is per process; hosts with sessions should derive it per user
	token := uuid.NewString()
	formHandler, err := httpform.New(s, def.Defaults(),
		httpform.WithTitle(pick(f.title, def.Title)),
		httpform.WithMode(a.cfg.FormMode()),
		httpform.WithObserver(form.LogObserver(a.logger)),
		httpform.WithObserver(collector.Observer()),
		httpform.WithLogger(a.logger),
		httpform.WithRegistry(registry),
		httpform.WithRedirect(f.redirect),
		httpform.WithTheme(themeConfig(a.cfg.ThemeName, a.cfg.ThemeVariant)),
		httpform.WithCSRF(a.cfg.CSRFField, func(*http.Request) string { return token }),
		httpform.WithSubmitHandler(func(_ context.Context, values form.Values) error {
			a.logger.Info("form submitted", "schema", s.ID(), "fields", len(values))
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Handle(a.cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", formHandler.Routes())
	return r, nil
}

func serve(ctx context.Context, a *app, srv *http.Server) error {
	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("serving form", "addr", srv.Addr, "metrics", a.cfg.MetricsPath)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-shutdown:
		a.logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", "error", err)
		return srv.Close()
	}
	return nil
}

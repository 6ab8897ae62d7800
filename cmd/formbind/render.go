package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/control"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/renderers/jsonview"
	"github.com/goliatone/go-formbind/pkg/renderers/vanilla"
)

type renderFlags struct {
	renderer string
	output   string
	title    string
	action   string
	values   []string
	submit   bool
	theme    string
	variant  string
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as HTML or JSON",
		Long:  `Renders the form with optional prefilled values. With --submit the form is submitted first so validation errors appear in the output.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a, f)
		},
	}
	cmd.Flags().StringVarP(&f.renderer, "renderer", "r", "", "renderer name: vanilla or json (env FORMBIND_RENDERER)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&f.title, "title", "", "form heading (defaults to the definition title)")
	cmd.Flags().StringVar(&f.action, "action", "", "form action URL")
	cmd.Flags().StringArrayVar(&f.values, "set", nil, "prefill a field, name=value (repeatable)")
	cmd.Flags().BoolVar(&f.submit, "submit", false, "submit before rendering to surface validation errors")
	cmd.Flags().StringVar(&f.theme, "theme", "", "theme name attached to the form (env FORMBIND_THEME_NAME)")
	cmd.Flags().StringVar(&f.variant, "variant", "", "theme variant (env FORMBIND_THEME_VARIANT)")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, f *renderFlags) error {
	ctx := cmd.Context()
	def, s, err := a.compile(ctx)
	if err != nil {
		return err
	}
	values, err := parseAssignments(f.values)
	if err != nil {
		return err
	}

	registry, err := newRegistry()
	if err != nil {
		return err
	}
	name := f.renderer
	if name == "" {
		name = a.cfg.Renderer
	}
	renderer, err := registry.Get(name)
	if err != nil {
		return err
	}

	title := f.title
	if title == "" {
		title = def.Title
	}
	root, err := control.NewRoot(s, def.Defaults(),
		control.WithFormOptions(a.formOptions()...),
		control.WithRenderer(renderer),
		control.WithTitle(title),
		control.WithRenderOptions(render.RenderOptions{
			Action: f.action,
			Theme:  themeConfig(pick(f.theme, a.cfg.ThemeName), pick(f.variant, a.cfg.ThemeVariant)),
		}),
	)
	if err != nil {
		return err
	}
	defer root.Close()
	if err := root.ComposeAll(); err != nil {
		return err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := root.Edit(name, values[name]); err != nil {
			return err
		}
	}
	if f.submit {
		if _, err := root.Submit(ctx); err != nil {
			if _, invalid := form.AsSubmitError(err); !invalid {
				return err
			}
		}
	}

	var buf bytes.Buffer
	if err := root.Render(ctx, &buf); err != nil {
		return err
	}
	if f.output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(f.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("form written", "path", f.output, "renderer", renderer.Name())
	return nil
}

// newRegistry registers the HTML renderer as the default and the JSON
// renderer as the alternative.
func newRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(jsonview.New("  ")); err != nil {
		return nil, err
	}
	return registry, nil
}

func themeConfig(name, variant string) *theme.RendererConfig {
	if name == "" && variant == "" {
		return nil
	}
	return &theme.RendererConfig{Theme: name, Variant: variant}
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var errInvalidValues = errors.New("values do not satisfy the form")

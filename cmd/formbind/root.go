package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	formbind "github.com/goliatone/go-formbind"
	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/schema"
)

// app carries what every subcommand needs after flags and environment are
// merged.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	envFile   string
	component string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "formbind",
		Short:         "Render, fill and serve schema-backed forms",
		Long:          `formbind loads a form definition (YAML, JSON or an OpenAPI component) and renders it as HTML, prompts for it in a terminal, or serves it over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("schema", "", "form definition path or URL (env FORMBIND_SCHEMA)")
	flags.StringVar(&a.component, "openapi-component", "", "read the definition from this OpenAPI components.schemas entry")
	flags.String("mode", "", "validation mode: onChange or onSubmit (env FORMBIND_MODE)")
	flags.String("log-level", "", "log level (env FORMBIND_LOG_LEVEL)")
	flags.String("log-format", "", "log format: text or json (env FORMBIND_LOG_FORMAT)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before parsing the environment")

	cmd.AddCommand(
		newRenderCmd(a),
		newFillCmd(a),
		newServeCmd(a),
		newKeysCmd(a),
		newValidateCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(config.WithDotenv(a.envFile))
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"schema":     &cfg.Schema,
		"mode":       &cfg.Mode,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			value, err := cmd.Flags().GetString(name)
			if err != nil {
				return err
			}
			*target = value
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(append(cfg.LoggingOptions(), logging.WithOutput(cmd.ErrOrStderr()))...)
	return nil
}

// definition loads and parses the configured form definition.
func (a *app) definition(ctx context.Context) (schema.Definition, error) {
	raw := strings.TrimSpace(a.cfg.Schema)
	if raw == "" {
		return schema.Definition{}, errors.New("no form definition: pass --schema or set FORMBIND_SCHEMA")
	}

	src := schema.SourceFromFile(raw)
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		src = schema.SourceFromURL(raw)
	}
	loader := formbind.NewLoader()

	if a.component == "" {
		return schema.LoadDefinition(ctx, loader, src)
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return schema.Definition{}, err
	}
	return schema.DefinitionFromOpenAPI(ctx, doc.Raw(), a.component)
}

// compile loads the definition and compiles it into a runtime schema.
func (a *app) compile(ctx context.Context) (schema.Definition, *schema.Schema[schema.Dynamic], error) {
	def, err := a.definition(ctx)
	if err != nil {
		return schema.Definition{}, nil, err
	}
	s, err := schema.Compile[schema.Dynamic](def)
	if err != nil {
		return schema.Definition{}, nil, err
	}
	return def, s, nil
}

// formOptions applies the configured mode and logs lifecycle events.
func (a *app) formOptions(extra ...form.Observer) []form.Option {
	observers := append([]form.Observer{form.LogObserver(a.logger)}, extra...)
	return []form.Option{
		form.WithMode(a.cfg.FormMode()),
		form.WithObserver(form.Chain(observers...)),
	}
}

func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid value %q: want name=value", pair)
		}
		out[strings.TrimSpace(name)] = value
	}
	return out, nil
}

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/pkg/form"
)

type validateFlags struct {
	valuesFile string
	values     []string
}

func newValidateCmd(a *app) *cobra.Command {
	f := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a definition and optionally a set of values",
		Long:  `Compiles the definition, then submits the given values (from --values and --set) and prints one line per field. Exits non-zero when any field is invalid.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, a, f)
		},
	}
	cmd.Flags().StringVar(&f.valuesFile, "values", "", "YAML or JSON file mapping field names to values")
	cmd.Flags().StringArrayVar(&f.values, "set", nil, "field value, name=value (repeatable, wins over --values)")
	return cmd
}

func runValidate(cmd *cobra.Command, a *app, f *validateFlags) error {
	def, s, err := a.compile(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "definition %s: %d fields\n", pick(def.ID, a.cfg.Schema), s.Len())
	if f.valuesFile == "" && len(f.values) == 0 {
		return nil
	}

	values := make(map[string]string)
	if f.valuesFile != "" {
		raw, err := os.ReadFile(f.valuesFile)
		if err != nil {
			return fmt.Errorf("read values: %w", err)
		}
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("parse values %s: %w", f.valuesFile, err)
		}
	}
	set, err := parseAssignments(f.values)
	if err != nil {
		return err
	}
	for name, value := range set {
		values[name] = value
	}

	ctx, err := form.New(s, def.Defaults(), a.formOptions()...)
	if err != nil {
		return err
	}
	defer ctx.Close()

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ctx.SetValue(name, values[name]); err != nil {
			return err
		}
	}

	_, submitErr := ctx.Submit()
	failure, invalid := form.AsSubmitError(submitErr)
	if submitErr != nil && !invalid {
		return submitErr
	}
	for _, name := range s.Keys() {
		if invalid {
			if msg := failure.Message(name); msg != "" {
				fmt.Fprintf(out, "invalid %s: %s\n", name, msg)
				continue
			}
		}
		fmt.Fprintf(out, "ok      %s\n", name)
	}
	if invalid {
		return fmt.Errorf("%w: %d invalid field(s)", errInvalidValues, len(failure.Fields))
	}
	return nil
}

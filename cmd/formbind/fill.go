package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/control"
	"github.com/goliatone/go-formbind/pkg/renderers/tui"
)

type fillFlags struct {
	format  string
	confirm bool
	retries int
}

func newFillCmd(a *app) *cobra.Command {
	f := &fillFlags{}
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively in the terminal",
		Long:  `Prompts for every field, asks again while an answer is invalid, then prints the submitted values.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// prompts go to stderr so stdout carries only the values
			driver := tui.NewSurveyDriverWithStdio(os.Stdin, os.Stderr, cmd.ErrOrStderr())
			return runFill(cmd, a, f, driver)
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	cmd.Flags().BoolVar(&f.confirm, "confirm", false, "ask for confirmation before submitting")
	cmd.Flags().IntVar(&f.retries, "max-attempts", 0, "give up after this many invalid answers per field (0 = unlimited)")
	return cmd
}

func runFill(cmd *cobra.Command, a *app, f *fillFlags, driver tui.PromptDriver) error {
	ctx := cmd.Context()
	def, s, err := a.compile(ctx)
	if err != nil {
		return err
	}
	format, err := tui.ParseOutputFormat(f.format)
	if err != nil {
		return err
	}

	root, err := control.NewRoot(s, def.Defaults(), control.WithFormOptions(a.formOptions()...))
	if err != nil {
		return err
	}
	defer root.Close()

	filler := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(format),
		tui.WithConfirmSubmit(f.confirm),
		tui.WithMaxAttempts(f.retries),
	)
	values, err := tui.Fill(ctx, filler, root)
	if err != nil {
		return err
	}
	out, err := filler.Serialize(values)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	if format != tui.OutputFormatPrettyText {
		_, err = w.Write([]byte("\n"))
	}
	return err
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/fmt-playground/document"
	"github.com/wippyai/fmt-playground/errors"
	"github.com/wippyai/fmt-playground/format"
	"github.com/wippyai/fmt-playground/settings"
	"github.com/wippyai/fmt-playground/surface"
)

type formatOptions struct {
	version  string
	settings string
	diff     bool
}

func formatCmd(root *rootOptions) *cobra.Command {
	var opts formatOptions

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Format a file (or stdin) and print the result",
		Long: `Format runs the same settings and format pipelines as the playground
without a terminal UI. With --diff it prints a unified diff from the
input to the formatted output instead, and nothing when they are equal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root, true)
			if err != nil {
				return err
			}
			defer a.close()
			return runFormat(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.version, "version", "", "engine version (default: first listed)")
	cmd.Flags().StringVar(&opts.settings, "settings", "", "settings file (default: engine defaults)")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print a unified diff")
	return cmd
}

func runFormat(cmd *cobra.Command, a *app, opts formatOptions, args []string) error {
	ctx := cmd.Context()

	name := "stdin"
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer f.Close()
		name, in = args[0], f
	}
	source, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	set, err := a.openAssets()
	if err != nil {
		return err
	}
	if err := set.loadVersion(ctx, opts.version); err != nil {
		return err
	}
	e := set.registry.Current()
	defer e.Close(ctx)

	settingsText := e.DefaultSettings()
	if opts.settings != "" {
		data, err := os.ReadFile(opts.settings)
		if err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
		settingsText = string(data)
	}

	pipeline := settings.New(set.registry, document.New(settingsText), settings.WithLogger(a.logger))
	defer pipeline.Stop()
	if err := pipeline.Validate(); err != nil {
		return fmt.Errorf("%s", errors.Describe(err))
	}

	original := document.New(string(source))
	formatted := document.New("")
	res := format.New(set.registry, pipeline, original, formatted, format.WithLogger(a.logger)).Run()
	if res.Err != nil {
		return fmt.Errorf("%s", errors.Describe(res.Err))
	}

	out := cmd.OutOrStdout()
	if opts.diff {
		_, err = io.WriteString(out, surface.Unified(name, name+" (formatted)", original.Content(), formatted.Content()))
		return err
	}
	_, err = io.WriteString(out, formatted.Content())
	return err
}

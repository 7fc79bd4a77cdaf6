package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "fmtplay",
		Short: "Formatter playground",
		Long: `fmtplay runs source text through a versioned formatting engine and shows
the result side by side with the original or as a unified diff.

Without a subcommand it starts the interactive playground. Engines come
from the builtin catalog unless assets.url (or --assets) points at an
asset root over http(s), s3:// or a local directory.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, &opts, "")
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.assets, "assets", "", "asset root (overrides assets.url)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides log.level)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (overrides log.file)")

	rootCmd.AddCommand(
		tuiCmd(&opts),
		formatCmd(&opts),
		versionsCmd(&opts),
		shareCmd(&opts),
		serveCmd(&opts),
	)
	return rootCmd
}

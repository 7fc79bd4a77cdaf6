package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/fmt-playground/share"
)

func shareCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode or decode shareable playground links",
	}
	cmd.AddCommand(shareEncodeCmd(root), shareDecodeCmd())
	return cmd
}

func shareEncodeCmd(root *rootOptions) *cobra.Command {
	var (
		sourceFile   string
		settingsFile string
		ver          string
		base         string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print a link that opens the given session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root, true)
			if err != nil {
				return err
			}
			defer a.close()

			if !cmd.Flags().Changed("base") {
				base = a.cfg.Playground.ShareBase
			}
			u, err := url.Parse(base)
			if err != nil {
				return fmt.Errorf("parse base url: %w", err)
			}

			var state share.State
			state.Version = ver
			if sourceFile != "" {
				data, err := os.ReadFile(sourceFile)
				if err != nil {
					return fmt.Errorf("read source: %w", err)
				}
				state.Source = string(data)
			}
			if settingsFile != "" {
				data, err := os.ReadFile(settingsFile)
				if err != nil {
					return fmt.Errorf("read settings: %w", err)
				}
				state.Settings = string(data)
			}

			fmt.Fprintln(cmd.OutOrStdout(), share.Codec{}.Encode(u, state).String())
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFile, "source", "", "source file")
	cmd.Flags().StringVar(&settingsFile, "settings", "", "settings file")
	cmd.Flags().StringVar(&ver, "version", "", "engine version")
	cmd.Flags().StringVar(&base, "base", "", "playground address (default: playground.share_base)")
	return cmd
}

func shareDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <url>",
		Short: "Print the session stored in a link as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse url: %w", err)
			}
			state, _, err := share.Codec{}.Decode(u)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}
}

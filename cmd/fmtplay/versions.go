package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the available engine versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, root, true)
			if err != nil {
				return err
			}
			defer a.close()

			set, err := a.openAssets()
			if err != nil {
				return err
			}
			versions, err := set.registry.Versions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, v := range versions {
				if i == 0 {
					fmt.Fprintf(out, "%s (default)\n", v)
					continue
				}
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}

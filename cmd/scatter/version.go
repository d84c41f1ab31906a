// Version command for the scatter CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/scatterplot"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the scatter version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "scatter v%s\nmodule: %s\n", version, modulePath)
			return nil
		},
	}
}

// Init command for the scatter CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
)

func newInitCmd(a *app) *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize scatter storage",
		Long: `Create the configuration and data directories and initialize the storage
backend. Running init again is harmless.

With --sample, also create a demonstration client with three behaviors.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				out := cmd.OutOrStdout()
				if sample {
					id, err := store.SeedSample(ctx)
					if err != nil {
						return fmt.Errorf("seed sample data: %w", err)
					}
					fmt.Fprintf(out, "Sample client: %s\n", id)
				}
				fmt.Fprintf(out, "Config: %s\n", a.configDir)
				fmt.Fprintln(out, "Scatter initialized successfully")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "seed a sample client with three behaviors")
	return cmd
}

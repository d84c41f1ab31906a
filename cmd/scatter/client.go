// Client commands for the scatter CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

func newClientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(newClientAddCmd(a))
	cmd.AddCommand(newClientListCmd(a))
	return cmd
}

func newClientAddCmd(a *app) *cobra.Command {
	var identifier, notes string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a client",
		Long: `Create a client and print its ID.

Example:
  scatter client add "Jordan P." --identifier JP042`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				client := &types.Client{
					Name:       args[0],
					Identifier: identifier,
					Notes:      notes,
				}
				id, err := store.CreateClient(ctx, client)
				if err != nil {
					return fmt.Errorf("create client: %w", err)
				}
				if a.flagJSON {
					return writeJSON(cmd.OutOrStdout(), client)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&identifier, "identifier", "", "short identifier, such as a chart number")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newClientListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active clients",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				clients, err := store.ListClients(ctx)
				if err != nil {
					return fmt.Errorf("list clients: %w", err)
				}
				if a.flagJSON {
					if clients == nil {
						clients = []types.Client{}
					}
					return writeJSON(cmd.OutOrStdout(), clients)
				}

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tIDENTIFIER")
				for _, c := range clients {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ClientID, c.Name, c.Identifier)
				}
				return tw.Flush()
			})
		},
	}
}

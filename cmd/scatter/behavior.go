// Behavior commands for the scatter CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

func newBehaviorCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "behavior",
		Short: "Manage a client's tracked behaviors",
		Long: `Manage the behaviors tracked for a client. Active behaviors become the
columns of the interval grid, in the order they were added.`,
	}
	cmd.AddCommand(newBehaviorAddCmd(a))
	cmd.AddCommand(newBehaviorListCmd(a))
	cmd.AddCommand(newBehaviorEditCmd(a))
	cmd.AddCommand(newBehaviorArchiveCmd(a))
	return cmd
}

func newBehaviorAddCmd(a *app) *cobra.Command {
	var clientID, description, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a behavior to a client",
		Long: `Add a behavior to a client and print its ID. The behavior becomes the
last column of the client's grid.

Example:
  scatter behavior add Aggression --client c1 --color "#ef4444"`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("client", clientID); err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				bh := &types.Behavior{
					ClientID:    clientID,
					Name:        args[0],
					Description: description,
					Color:       color,
				}
				id, err := store.CreateBehavior(ctx, bh)
				if err != nil {
					return fmt.Errorf("create behavior: %w", err)
				}
				if a.flagJSON {
					return writeJSON(cmd.OutOrStdout(), bh)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&description, "description", "", "operational definition")
	cmd.Flags().StringVar(&color, "color", "", "hex color hint, such as #ef4444")
	return cmd
}

func newBehaviorListCmd(a *app) *cobra.Command {
	var clientID string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a client's behaviors in column order",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("client", clientID); err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				list := store.ActiveBehaviors
				if all {
					list = store.ListBehaviors
				}
				behaviors, err := list(ctx, clientID)
				if err != nil {
					return fmt.Errorf("list behaviors: %w", err)
				}
				if a.flagJSON {
					if behaviors == nil {
						behaviors = []types.Behavior{}
					}
					return writeJSON(cmd.OutOrStdout(), behaviors)
				}

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tSTATUS")
				for _, b := range behaviors {
					status := "active"
					if b.Archived() {
						status = "archived"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.BehaviorID, b.Name, b.Color, status)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required)")
	cmd.Flags().BoolVar(&all, "all", false, "include archived behaviors")
	return cmd
}

func newBehaviorEditCmd(a *app) *cobra.Command {
	var name, description, color string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a behavior's name, description or color",
		Long: `Change the given fields of a behavior. Fields whose flag is not given are
kept; an empty --description or --color clears the field. The name cannot be
empty. The column position does not change.

Example:
  scatter behavior edit sample-client-1-aggression --name "Physical aggression"
  scatter behavior edit sample-client-1-aggression --color ""`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u types.BehaviorUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &name
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("color") {
				u.Color = &color
			}
			if u.Empty() {
				return fmt.Errorf("%w: nothing to change; use --name, --description or --color", errUsage)
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				bh, err := store.UpdateBehavior(ctx, args[0], u)
				if err != nil {
					return fmt.Errorf("edit behavior: %w", err)
				}
				if a.flagJSON {
					return writeJSON(cmd.OutOrStdout(), bh)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", bh.BehaviorID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new operational definition")
	cmd.Flags().StringVar(&color, "color", "", "new hex color hint")
	return cmd
}

func newBehaviorArchiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a behavior",
		Long: `Archive a behavior. It is no longer a column of new or reopened grids;
intervals already recorded for it are kept.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				if err := store.ArchiveBehavior(ctx, args[0]); err != nil {
					return fmt.Errorf("archive behavior: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
				return nil
			})
		},
	}
}

// Fill command for the scatter CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Fill modes.
const (
	fillChecked = "checked"
	fillSkipped = "skipped"
	fillClear   = "clear"
)

func newFillCmd(a *app) *cobra.Command {
	var clientID, date string
	var yes bool

	cmd := &cobra.Command{
		Use:   "fill checked|skipped|clear",
		Short: "Fill or clear a whole day and save",
		Long: `Overwrite every cell of the day and save.

  checked  every cell becomes err and every row checked
  skipped  every cell becomes skip and every row skipped
  clear    every cell is cleared; requires --yes

Occurrences already marked are overwritten.`,
		Args:      exactArgs(1),
		ValidArgs: []string{fillChecked, fillSkipped, fillClear},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := args[0]
			switch mode {
			case fillChecked, fillSkipped:
			case fillClear:
				if !yes {
					return fmt.Errorf("%w: clear removes every cell of the day; pass --yes to confirm", errUsage)
				}
			default:
				return fmt.Errorf("%w: unknown fill mode %q", errUsage, mode)
			}
			if err := requireFlag("client", clientID); err != nil {
				return err
			}
			day, err := sessionDate(date)
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				sess, _, err := a.openEditor(ctx, store, clientID, day)
				if err != nil {
					return err
				}
				g := sess.Grid()
				switch mode {
				case fillChecked:
					g.FillAll(types.CellErr, types.RowChecked)
				case fillSkipped:
					g.FillAll(types.CellSkip, types.RowSkipped)
				case fillClear:
					g.ClearAll()
				}

				if err := sess.SaveSync(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: filled %d/%d\n", day, g.Filled(), g.Size())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "session date, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clear")
	return cmd
}

// Entry command: the interactive interval grid.
package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/internal/tui"
	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
)

func newEntryCmd(a *app) *cobra.Command {
	var clientID, date string

	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Open the interactive grid for a day",
		Long: `Open the interval grid for one client and day in the terminal.

Click a cell to mark or unmark an occurrence; drag to paint the pressed
cell's result down or across. The status column toggles a row between
checked and skipped and can be dragged the same way. Press ? for keys.
The day defaults to today.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("client", clientID); err != nil {
				return err
			}
			day, err := sessionDate(date)
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				sess, client, err := a.openEditor(ctx, store, clientID, day)
				if err != nil {
					return err
				}

				model := tui.NewModel(sess, tui.Options{
					Title:    client.Name,
					DayStart: a.dayStart,
					Context:  ctx,
				})
				prog := tea.NewProgram(model,
					tea.WithContext(ctx),
					tea.WithAltScreen(),
					tea.WithMouseCellMotion(),
				)
				if _, err := prog.Run(); err != nil {
					return fmt.Errorf("run grid: %w", err)
				}

				if sess.Grid().Dirty() {
					fmt.Fprintln(cmd.ErrOrStderr(), "Unsaved changes discarded")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "session date, YYYY-MM-DD (default today)")
	return cmd
}

// Mark command for the scatter CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// markResult is what mark prints after saving.
type markResult struct {
	SessionID  string          `json:"session_id"`
	Date       string          `json:"date"`
	Interval   int             `json:"interval"`
	Label      string          `json:"label"`
	BehaviorID string          `json:"behavior_id,omitempty"`
	Value      types.CellValue `json:"value"`
	Status     types.RowStatus `json:"status"`
}

// intervalFlags selects an interval by clock time or by index.
type intervalFlags struct {
	clock string
	index int
}

// resolve returns the selected interval index. Exactly one of the two flags
// must be set.
func (f intervalFlags) resolve(dayStart int) (int, error) {
	switch {
	case f.clock != "" && f.index >= 0:
		return 0, fmt.Errorf("%w: --time and --interval are mutually exclusive", errUsage)
	case f.clock != "":
		minutes, err := types.ParseClock(f.clock)
		if err != nil {
			return 0, err
		}
		return types.IntervalIndexAt(minutes/60, minutes%60, dayStart)
	case f.index >= 0:
		if f.index >= types.IntervalsPerDay {
			return 0, fmt.Errorf("%w: %d", types.ErrInvalidInterval, f.index)
		}
		return f.index, nil
	default:
		return 0, fmt.Errorf("%w: one of --time or --interval is required", errUsage)
	}
}

func newMarkCmd(a *app) *cobra.Command {
	var clientID, date, behaviorRef string
	var row bool
	at := intervalFlags{index: -1}

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Click one cell or row status and save",
		Long: `Apply a single click to the grid and save it, the same as clicking in the
interactive grid.

A cell click marks the behavior as having occurred (ind), or turns an
existing occurrence back into err. Marking checks the row, and the row's
empty or skip cells become err. With --row, the row status is clicked instead: empty or skipped rows
become checked, checked rows become skipped. A row with an occurrence
cannot be skipped.

Example:
  scatter mark --client c1 --date 2026-03-14 --behavior Aggression --time 09:20
  scatter mark --client c1 --date 2026-03-14 --row --interval 12`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("client", clientID); err != nil {
				return err
			}
			if !row {
				if err := requireFlag("behavior", behaviorRef); err != nil {
					return err
				}
			}
			day, err := sessionDate(date)
			if err != nil {
				return err
			}
			index, err := at.resolve(a.dayStart)
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				sess, _, err := a.openEditor(ctx, store, clientID, day)
				if err != nil {
					return err
				}
				g := sess.Grid()
				p := sess.Controller()
				r := g.Row(index)

				res := markResult{
					Date:     day,
					Interval: index,
					Label:    types.IntervalLabel(index, a.dayStart),
				}

				if row {
					p.PressRow(r)
					p.ReleaseRow(r)
				} else {
					bh, err := findBehavior(ctx, store, clientID, behaviorRef)
					if err != nil {
						return err
					}
					c, ok := g.ColOf(bh.BehaviorID)
					if !ok {
						return fmt.Errorf("behavior %q: %w", bh.Name, types.ErrNotFound)
					}
					p.PressCell(r, c)
					p.ReleaseCell(r, c)
					res.BehaviorID = bh.BehaviorID
					res.Value = g.Cell(r, c)
				}
				p.ReleaseAnywhere()
				res.Status = g.Status(r)

				if err := sess.SaveSync(ctx); err != nil {
					return fmt.Errorf("save: %w", err)
				}
				res.SessionID = sess.SessionID()

				if a.flagJSON {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				out := cmd.OutOrStdout()
				if res.BehaviorID != "" {
					fmt.Fprintf(out, "%s %s: %s (row %s)\n", res.Date, res.Label, res.Value, res.Status)
				} else {
					fmt.Fprintf(out, "%s %s: row %s\n", res.Date, res.Label, res.Status)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "session date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&behaviorRef, "behavior", "", "behavior ID or name")
	cmd.Flags().BoolVar(&row, "row", false, "click the row status instead of a cell")
	cmd.Flags().StringVar(&at.clock, "time", "", "clock time inside the interval, 24-hour HH:MM")
	cmd.Flags().IntVar(&at.index, "interval", -1, "interval index, 0 is the first interval of the day")
	return cmd
}

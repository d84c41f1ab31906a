// Show command for the scatter CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/internal/editor"
	"github.com/mesh-intelligence/scatterplot/pkg/grid"
	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// gridReport is the printable state of one observation day.
type gridReport struct {
	ClientID   string         `json:"client_id"`
	ClientName string         `json:"client_name"`
	Date       string         `json:"date"`
	SessionID  string         `json:"session_id,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Behaviors  []reportColumn `json:"behaviors"`
	Rows       []reportRow    `json:"rows"`
	Totals     []reportTotals `json:"totals"`
	Filled     int            `json:"filled"`
	Size       int            `json:"size"`
}

type reportColumn struct {
	BehaviorID string `json:"behavior_id"`
	Name       string `json:"name"`
}

type reportRow struct {
	Interval int               `json:"interval"`
	Label    string            `json:"label"`
	Status   types.RowStatus   `json:"status"`
	Cells    []types.CellValue `json:"cells"`
}

type reportTotals struct {
	BehaviorID string `json:"behavior_id"`
	Name       string `json:"name"`
	grid.Totals
}

// buildReport snapshots sess. Rows with status empty are left out unless
// all is set.
func buildReport(sess *editor.Session, client *types.Client, dayStart int, all bool) gridReport {
	g := sess.Grid()
	rep := gridReport{
		ClientID:   client.ClientID,
		ClientName: client.Name,
		Date:       sess.Date(),
		SessionID:  sess.SessionID(),
		Notes:      sess.Notes(),
		Behaviors:  []reportColumn{},
		Rows:       []reportRow{},
		Totals:     []reportTotals{},
		Filled:     g.Filled(),
		Size:       g.Size(),
	}

	for c := range g.Cols() {
		b := g.Behavior(c)
		rep.Behaviors = append(rep.Behaviors, reportColumn{BehaviorID: b.BehaviorID, Name: b.Name})
		rep.Totals = append(rep.Totals, reportTotals{BehaviorID: b.BehaviorID, Name: b.Name, Totals: g.Totals(c)})
	}
	for r := range g.Rows() {
		status := g.Status(r)
		if status == types.RowEmpty && !all {
			continue
		}
		rep.Rows = append(rep.Rows, reportRow{
			Interval: r.Index(),
			Label:    types.IntervalLabel(r.Index(), dayStart),
			Status:   status,
			Cells:    g.RowCells(r),
		})
	}
	return rep
}

// writeReport prints rep as a table followed by the totals footer.
func writeReport(w io.Writer, rep gridReport) error {
	session := rep.SessionID
	if session == "" {
		session = "not saved"
	}
	fmt.Fprintf(w, "%s · %s · session %s\n", rep.ClientName, rep.Date, session)
	if rep.Notes != "" {
		fmt.Fprintf(w, "Notes: %s\n", rep.Notes)
	}
	fmt.Fprintln(w)

	tw := newTable(w)
	header := []string{"INTERVAL", "STATUS"}
	for _, b := range rep.Behaviors {
		header = append(header, b.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rep.Rows {
		fields := []string{row.Label, string(row.Status)}
		if row.Status == types.RowEmpty {
			fields[1] = "-"
		}
		for _, v := range row.Cells {
			fields = append(fields, cellText(v))
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "BEHAVIOR\tOBSERVED\tIND\tERR")
	for _, t := range rep.Totals {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", t.Name, t.Observed, t.Ind, t.Err)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nFilled %d/%d\n", rep.Filled, rep.Size)
	return err
}

// cellText renders a cell for the table; empty cells print as ".".
func cellText(v types.CellValue) string {
	if v.IsEmpty() {
		return "."
	}
	return string(v)
}

func newShowCmd(a *app) *cobra.Command {
	var clientID, date string
	var all bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a day's grid and totals",
		Long: `Print the grid of one observation day with per-behavior totals. Only rows
with a status are printed unless --all is given. The day defaults to today.

Example:
  scatter show --client sample-client-1 --date 2026-03-14
  scatter show --client sample-client-1 --json`,
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
				rep := buildReport(sess, client, a.dayStart, all)
				if a.flagJSON {
					return writeJSON(cmd.OutOrStdout(), rep)
				}
				return writeReport(cmd.OutOrStdout(), rep)
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "session date, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&all, "all", false, "print every interval, not only those with a status")
	return cmd
}

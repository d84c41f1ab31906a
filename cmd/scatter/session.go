// Session commands for the scatter CLI.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "List, annotate and delete saved observation days",
	}
	cmd.AddCommand(newSessionListCmd(a))
	cmd.AddCommand(newSessionNotesCmd(a))
	cmd.AddCommand(newSessionDeleteCmd(a))
	return cmd
}

func newSessionListCmd(a *app) *cobra.Command {
	var filter types.SessionFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Long: `List saved sessions, newest first. Dates are inclusive.

Example:
  scatter session list --client c1 --from 2026-03-01 --to 2026-03-31`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range []*string{&filter.From, &filter.To} {
				if *d == "" {
					continue
				}
				norm, err := types.ParseDate(*d)
				if err != nil {
					return err
				}
				*d = norm
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				sessions, err := store.ListSessions(ctx, filter)
				if err != nil {
					return fmt.Errorf("list sessions: %w", err)
				}
				if a.flagJSON {
					if sessions == nil {
						sessions = []types.Session{}
					}
					return writeJSON(cmd.OutOrStdout(), sessions)
				}

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tCLIENT\tDATE\tUPDATED")
				for _, s := range sessions {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						s.SessionID, s.ClientID, s.Date, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&filter.ClientID, "client", "", "only sessions of this client")
	cmd.Flags().StringVar(&filter.From, "from", "", "earliest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.To, "to", "", "latest date, YYYY-MM-DD")
	return cmd
}

func newSessionNotesCmd(a *app) *cobra.Command {
	var clientID, date string

	cmd := &cobra.Command{
		Use:   "notes <text>",
		Short: "Set the notes of an observation day",
		Long: `Replace the free-form notes of one observation day. The session is created
if nothing was saved for the day yet. An empty text clears the notes.

Example:
  scatter session notes "Substitute teacher" --client c1 --date 2026-03-14
  scatter session notes "" --client c1 --date 2026-03-14`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("client", clientID); err != nil {
				return err
			}
			day, err := sessionDate(date)
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				sess, err := store.SetSessionNotes(ctx, clientID, day, args[0])
				if err != nil {
					return fmt.Errorf("set notes: %w", err)
				}
				if a.flagJSON {
					return writeJSON(cmd.OutOrStdout(), sess)
				}
				if sess.Notes == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: notes cleared\n", sess.Date)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: notes saved\n", sess.Date)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "session date, YYYY-MM-DD (default today)")
	return cmd
}

func newSessionDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session and all of its intervals",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store sqlite.Store) error {
				if err := store.DeleteSession(ctx, args[0]); err != nil {
					return fmt.Errorf("delete session: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

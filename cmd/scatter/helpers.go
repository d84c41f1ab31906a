// Shared helpers for scatter CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/scatterplot/internal/editor"
	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// newTable returns a tabwriter for column output; callers must Flush.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// sessionDate returns the --date value normalized, or today's date when the
// flag was left empty.
func sessionDate(flag string) (string, error) {
	if flag == "" {
		return time.Now().Format(types.DateLayout), nil
	}
	return types.ParseDate(flag)
}

// requireFlag fails with a usage error when a mandatory string flag is empty.
func requireFlag(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: --%s is required", errUsage, name)
	}
	return nil
}

// findBehavior resolves ref, a behavior ID or a case-insensitive name, among
// all of the client's behaviors. An archived match yields ErrArchived.
func findBehavior(ctx context.Context, store sqlite.Store, clientID, ref string) (types.Behavior, error) {
	behaviors, err := store.ListBehaviors(ctx, clientID)
	if err != nil {
		return types.Behavior{}, err
	}

	var match *types.Behavior
	for i := range behaviors {
		if behaviors[i].BehaviorID == ref {
			match = &behaviors[i]
			break
		}
	}
	if match == nil {
		for i := range behaviors {
			if strings.EqualFold(behaviors[i].Name, ref) && (match == nil || match.Archived()) {
				match = &behaviors[i]
			}
		}
	}

	if match == nil {
		return types.Behavior{}, fmt.Errorf("behavior %q: %w", ref, types.ErrNotFound)
	}
	if match.Archived() {
		return *match, fmt.Errorf("behavior %q: %w", match.Name, types.ErrArchived)
	}
	return *match, nil
}

// openEditor loads the grid for (clientID, date) together with the client.
func (a *app) openEditor(ctx context.Context, store sqlite.Store, clientID, date string) (*editor.Session, *types.Client, error) {
	client, err := store.GetClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	sess, err := editor.Open(ctx, store, clientID, date, editor.Options{Logger: a.logger})
	if err != nil {
		return nil, nil, fmt.Errorf("open grid: %w", err)
	}
	return sess, client, nil
}

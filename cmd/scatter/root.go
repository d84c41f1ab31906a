// Root command for the scatter CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/scatterplot/internal/paths"
	"github.com/mesh-intelligence/scatterplot/pkg/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	// Global flag values.
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool

	configDir string
	settings  settings
	dayStart  int
	logger    *slog.Logger
	stderr    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:   "scatter",
		Short: "Scatter records behavior observations on a 15-minute interval grid",
		Long: `Scatter manages clients and their tracked behaviors and records, per
observation day, which behaviors occurred in each 15-minute interval.

Run "scatter entry" for the interactive grid, or "scatter mark" and
"scatter fill" to edit a day from scripts.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (default: ./.scatter or the user config dir)")
	root.PersistentFlags().StringVar(&a.flagDataDir, "data-dir", "", "data directory (default: ./.scatter-db or the user data dir)")
	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newClientCmd(a))
	root.AddCommand(newBehaviorCmd(a))
	root.AddCommand(newSessionCmd(a))
	root.AddCommand(newEntryCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newMarkCmd(a))
	root.AddCommand(newFillCmd(a))
	return root
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. The version command needs none of it.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir

	s, err := loadSettings(configDir)
	if err != nil {
		return err
	}
	a.settings = s

	a.dayStart, err = types.ParseClock(s.DayStart)
	if err != nil {
		return fmt.Errorf("config %s: %w", cfgKeyDayStart, err)
	}

	a.logger, err = newLogger(a.stderr, s.LogLevel, s.LogFormat)
	return err
}

// resolveDataDir applies the data directory precedence:
// --data-dir > SCATTER_DATA_DIR > config.yaml data_dir > ./.scatter-db > default.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.flagDataDir, a.settings.DataDir)
}

// withStore attaches a backend for the duration of fn. Queued writes are
// flushed on detach and a flush failure is reported alongside fn's error.
func (a *app) withStore(ctx context.Context, fn func(context.Context, sqlite.Store) error) (err error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.NewBackend(a.logger)
	cfg := types.Config{
		Backend:      a.settings.Backend,
		DataDir:      dataDir,
		SyncStrategy: a.settings.Sync,
	}
	if err := store.Attach(cfg); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	defer func() {
		if derr := store.Detach(); derr != nil {
			err = errors.Join(err, fmt.Errorf("detach store: %w", derr))
		}
	}()

	return fn(ctx, store)
}

// exactArgs is cobra.ExactArgs with errors marked as usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		return nil
	}
}

// noArgs is cobra.NoArgs with errors marked as usage errors.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// Package main provides the scatter CLI: client and behavior management, the
// interactive interval grid, and one-shot grid edits for scripting.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks malformed command lines.
var errUsage = errors.New("usage error")

// userErrors are the sentinels caused by bad input rather than a failing
// system.
var userErrors = []error{
	errUsage,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidData,
	types.ErrArchived,
	types.ErrUnknownBehavior,
	types.ErrInvalidValue,
	types.ErrInvalidStatus,
	types.ErrInvalidInterval,
	types.ErrInvalidDate,
	types.ErrInvalidTime,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrSyncStrategyUnknown,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "scatter:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

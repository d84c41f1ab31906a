// Package sqlite provides the public API for the SQLite scatterplot store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/scatterplot/internal/sqlite"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Store is a types.Store that can also seed demonstration data.
type Store interface {
	types.Store

	// SeedSample creates the sample client and its behaviors if they do
	// not exist yet, returning the client's ID.
	SeedSample(ctx context.Context) (string, error)
}

// NewBackend creates a new SQLite backend instance. A nil logger discards
// storage events. The backend is not attached; call Attach with a Config to
// initialize.
//
// Example:
//
//	store := sqlite.NewBackend(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".scatter-db",
//	})
//	defer store.Detach()
func NewBackend(logger *slog.Logger) Store {
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}

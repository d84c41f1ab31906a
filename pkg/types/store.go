package types

import "context"

// BehaviorSource supplies the grid's columns.
type BehaviorSource interface {
	// ActiveBehaviors returns the client's behaviors without an end date,
	// in column order. Returns ErrNotFound if the client does not exist.
	ActiveBehaviors(ctx context.Context, clientID string) ([]Behavior, error)
}

// SessionSource supplies previously recorded intervals.
type SessionSource interface {
	// FindSession returns the session for (clientID, date) with its
	// intervals. Returns ErrNotFound if no session has been saved yet.
	FindSession(ctx context.Context, clientID, date string) (*Session, error)
}

// PersistenceSink stores a grid's save payload.
type PersistenceSink interface {
	// ApplyIntervals applies exactly the given cells to the session for
	// (clientID, date), creating the session on first save. A record with
	// an empty value deletes the stored interval; any other value creates
	// or overwrites it. The whole list is validated before anything is
	// written and applied atomically. Applying the same list twice leaves
	// the same state.
	ApplyIntervals(ctx context.Context, clientID, date string, records []IntervalRecord) (*Session, error)
}

// Store is the storage backend for clients, behaviors and sessions.
// Callers attach to a backend, use it, and detach when done.
type Store interface {
	BehaviorSource
	SessionSource
	PersistenceSink

	// Attach connects the Store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources and flushes queued writes.
	// Idempotent. After Detach, operations return ErrStoreDetached.
	Detach() error

	// CreateClient validates and stores a new client, returning its ID.
	CreateClient(ctx context.Context, c *Client) (string, error)

	// GetClient returns a client by ID or ErrNotFound.
	GetClient(ctx context.Context, id string) (*Client, error)

	// ListClients returns clients without an archive date, by name.
	ListClients(ctx context.Context) ([]Client, error)

	// CreateBehavior validates and stores a new behavior for an existing
	// client, returning its ID.
	CreateBehavior(ctx context.Context, b *Behavior) (string, error)

	// ListBehaviors returns every behavior of a client, archived included.
	ListBehaviors(ctx context.Context, clientID string) ([]Behavior, error)

	// UpdateBehavior changes the set fields of a behavior and returns it.
	// Archived behaviors can still be edited.
	UpdateBehavior(ctx context.Context, id string, u BehaviorUpdate) (*Behavior, error)

	// ArchiveBehavior sets the behavior's end date. Idempotent.
	ArchiveBehavior(ctx context.Context, id string) error

	// ListSessions returns sessions matching the filter, newest first,
	// without their intervals.
	ListSessions(ctx context.Context, filter SessionFilter) ([]Session, error)

	// SetSessionNotes replaces the notes of the session for (clientID,
	// date), creating an empty session if none exists.
	SetSessionNotes(ctx context.Context, clientID, date, notes string) (*Session, error)

	// DeleteSession removes a session and all of its intervals.
	DeleteSession(ctx context.Context, id string) error
}

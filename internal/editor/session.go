// Package editor ties one (client, date) grid to its storage. It loads the
// grid, exposes the engine and paint controller to a front end, and runs the
// save round trip without touching the grid off the caller's goroutine.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/scatterplot/pkg/grid"
	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// Store is the subset of types.Store an editing session needs.
type Store interface {
	types.BehaviorSource
	types.SessionSource
	types.PersistenceSink
}

// Options configures Open.
type Options struct {
	// Logger receives save events. Nil discards them.
	Logger *slog.Logger

	// Now is the clock used for the saved-at stamp. Nil uses time.Now.
	Now func() time.Time
}

// Session is one open grid. Its methods are not safe for concurrent use;
// only PendingSave.Run may run on another goroutine.
type Session struct {
	clientID string
	date     string
	sink     types.PersistenceSink
	logger   *slog.Logger
	now      func() time.Time

	grid    *grid.Grid
	paint   *grid.Controller
	pending *PendingSave

	sessionID string
	notes     string
	savedAt   time.Time
	message   string
}

// Open loads the grid for (clientID, date): the client's active behaviors
// become the columns and the stored intervals, if any, the cells.
func Open(ctx context.Context, store Store, clientID, date string, opts Options) (*Session, error) {
	date, err := types.ParseDate(date)
	if err != nil {
		return nil, err
	}

	behaviors, err := store.ActiveBehaviors(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("loading behaviors: %w", err)
	}

	var (
		records   []types.IntervalRecord
		sessionID string
		notes     string
	)
	sess, err := store.FindSession(ctx, clientID, date)
	switch {
	case err == nil:
		records = sess.Intervals
		sessionID = sess.SessionID
		notes = sess.Notes
	case errors.Is(err, types.ErrNotFound):
	default:
		return nil, fmt.Errorf("loading session: %w", err)
	}

	s := &Session{
		clientID:  clientID,
		date:      date,
		sink:      store,
		logger:    opts.Logger,
		now:       opts.Now,
		grid:      grid.Load(behaviors, records),
		sessionID: sessionID,
		notes:     notes,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.paint = grid.NewController(s.grid)
	s.grid.OnDirtyChange(func(dirty bool) {
		if dirty && s.pending == nil {
			s.message = ""
		}
	})

	s.logger.Debug("session opened",
		"client_id", clientID, "date", date,
		"behaviors", len(behaviors), "intervals", len(records))
	return s, nil
}

// Grid returns the session's grid.
func (s *Session) Grid() *grid.Grid { return s.grid }

// Controller returns the paint controller bound to the grid.
func (s *Session) Controller() *grid.Controller { return s.paint }

// ClientID returns the client being recorded.
func (s *Session) ClientID() string { return s.clientID }

// Date returns the normalized session date.
func (s *Session) Date() string { return s.date }

// SessionID returns the stored session's ID, or "" before the first save.
func (s *Session) SessionID() string { return s.sessionID }

// Notes returns the stored session's notes.
func (s *Session) Notes() string { return s.notes }

// Saving reports whether a save is in flight.
func (s *Session) Saving() bool { return s.pending != nil }

// Message is the footer text describing the last save.
func (s *Session) Message() string { return s.message }

// SavedAt returns the time of the last successful save.
func (s *Session) SavedAt() time.Time { return s.savedAt }

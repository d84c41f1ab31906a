package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// PendingSave is a captured save payload waiting to be sent to storage.
type PendingSave struct {
	sink       types.PersistenceSink
	logger     *slog.Logger
	clientID   string
	date       string
	payload    []types.IntervalRecord
	generation uint64
}

// SaveResult is the outcome of PendingSave.Run, handed back to
// Session.CompleteSave.
type SaveResult struct {
	Session *types.Session
	Err     error
	Elapsed time.Duration
	Records int
	from    *PendingSave
}

// BeginSave captures the grid's save payload. It returns ErrSaveInFlight if
// a save has not completed yet and ErrNoChanges if the grid is clean.
func (s *Session) BeginSave() (*PendingSave, error) {
	if s.pending != nil {
		return nil, types.ErrSaveInFlight
	}
	if !s.grid.Dirty() {
		return nil, types.ErrNoChanges
	}

	p := &PendingSave{
		sink:       s.sink,
		logger:     s.logger,
		clientID:   s.clientID,
		date:       s.date,
		payload:    s.grid.SavePayload(),
		generation: s.grid.Generation(),
	}
	s.pending = p
	s.message = "Saving..."
	return p, nil
}

// Run sends the payload to storage. It reads no grid state and may run on
// any goroutine.
func (p *PendingSave) Run(ctx context.Context) SaveResult {
	start := time.Now()
	sess, err := p.sink.ApplyIntervals(ctx, p.clientID, p.date, p.payload)
	res := SaveResult{
		Session: sess,
		Err:     err,
		Elapsed: time.Since(start),
		Records: len(p.payload),
		from:    p,
	}
	if err != nil {
		p.logger.Error("save failed", "client_id", p.clientID, "date", p.date, "error", err)
	} else {
		p.logger.Info("save complete",
			"client_id", p.clientID, "date", p.date,
			"records", res.Records, "elapsed", res.Elapsed)
	}
	return res
}

// CompleteSave applies a save outcome to the session and returns its error.
// On success the payload becomes the grid's baseline, and the grid is marked
// clean unless it was edited while the save was in flight. On failure the
// grid stays dirty and untouched. A result from a save other than the one in
// flight is ignored.
func (s *Session) CompleteSave(res SaveResult) error {
	if res.from == nil || res.from != s.pending {
		return nil
	}
	s.pending = nil

	if res.Err != nil {
		s.message = fmt.Sprintf("Save failed: %v", res.Err)
		return res.Err
	}

	s.grid.Commit(res.from.payload)
	if res.Session != nil {
		s.sessionID = res.Session.SessionID
		s.notes = res.Session.Notes
	}
	s.savedAt = s.now()

	if s.grid.Generation() == res.from.generation {
		s.grid.MarkClean()
		s.message = "Saved " + s.savedAt.Format("3:04:05 PM")
	} else {
		s.message = "Saved; newer edits not yet saved"
	}
	return nil
}

// SaveSync runs a whole save on the calling goroutine. A clean grid is not
// an error.
func (s *Session) SaveSync(ctx context.Context) error {
	p, err := s.BeginSave()
	if errors.Is(err, types.ErrNoChanges) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.CompleteSave(p.Run(ctx))
}

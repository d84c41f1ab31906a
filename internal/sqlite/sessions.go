package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

const sessionColumns = "session_id, client_id, session_date, notes, created_at, updated_at"

// FindSession returns the session for (clientID, date) with its intervals.
func (b *Backend) FindSession(ctx context.Context, clientID, date string) (*types.Session, error) {
	if clientID == "" {
		return nil, types.ErrInvalidID
	}
	date, err := types.ParseDate(date)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return findSession(ctx, b.db, clientID, date)
}

func findSession(ctx context.Context, q queryer, clientID, date string) (*types.Session, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE client_id = ? AND session_date = ?",
		clientID, date)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s %s: %w", clientID, date, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT behavior_id, interval_index, value FROM intervals WHERE session_id = ? ORDER BY interval_index, behavior_id",
		s.SessionID)
	if err != nil {
		return nil, fmt.Errorf("querying intervals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec types.IntervalRecord
		var value string
		if err := rows.Scan(&rec.BehaviorID, &rec.IntervalIndex, &value); err != nil {
			return nil, fmt.Errorf("scanning interval: %w", err)
		}
		rec.Value = types.CellValue(value)
		s.Intervals = append(s.Intervals, rec)
	}
	return s, rows.Err()
}

func scanSession(s scanner) (*types.Session, error) {
	var (
		sess                 types.Session
		createdAt, updatedAt string
	)
	if err := s.Scan(&sess.SessionID, &sess.ClientID, &sess.Date, &sess.Notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	sess.CreatedAt = parseTime(createdAt)
	sess.UpdatedAt = parseTime(updatedAt)
	return &sess, nil
}

// ApplyIntervals applies exactly the given cells to the session for
// (clientID, date). Every record is checked before the transaction starts;
// one bad record rejects the whole payload.
func (b *Backend) ApplyIntervals(ctx context.Context, clientID, date string, records []types.IntervalRecord) (*types.Session, error) {
	if clientID == "" {
		return nil, types.ErrInvalidID
	}
	date, err := types.ParseDate(date)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := rec.Check(); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	if _, err := getClient(ctx, b.db, clientID); err != nil {
		return nil, err
	}
	behaviors, err := queryBehaviors(ctx, b.db, clientID, false)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]bool, len(behaviors))
	for _, bh := range behaviors {
		owned[bh.BehaviorID] = true
	}
	for _, rec := range records {
		if !owned[rec.BehaviorID] {
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownBehavior, rec.BehaviorID)
		}
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	sessionID, err := ensureSession(ctx, tx, clientID, date, now)
	if err != nil {
		return nil, err
	}

	var written, deleted int
	for _, rec := range records {
		if rec.Value.IsEmpty() {
			if _, err := tx.ExecContext(ctx,
				"DELETE FROM intervals WHERE session_id = ? AND behavior_id = ? AND interval_index = ?",
				sessionID, rec.BehaviorID, rec.IntervalIndex,
			); err != nil {
				return nil, fmt.Errorf("deleting interval: %w", err)
			}
			deleted++
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO intervals (session_id, behavior_id, interval_index, value) VALUES (?, ?, ?, ?)
			 ON CONFLICT (session_id, behavior_id, interval_index) DO UPDATE SET value = excluded.value`,
			sessionID, rec.BehaviorID, rec.IntervalIndex, string(rec.Value),
		); err != nil {
			return nil, fmt.Errorf("writing interval: %w", err)
		}
		written++
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE sessions SET updated_at = ? WHERE session_id = ?", now, sessionID,
	); err != nil {
		return nil, fmt.Errorf("touching session: %w", err)
	}

	sess, err := findSession(ctx, tx, clientID, date)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing save: %w", err)
	}
	if err := b.persist("sessions", "intervals"); err != nil {
		return nil, err
	}

	b.logger.Info("intervals saved",
		"client_id", clientID, "date", date, "session_id", sessionID,
		"written", written, "deleted", deleted)
	return sess, nil
}

// ensureSession returns the ID of the session for (clientID, date),
// inserting an empty one if there is none.
func ensureSession(ctx context.Context, tx *sql.Tx, clientID, date, now string) (string, error) {
	var sessionID string
	err := tx.QueryRowContext(ctx,
		"SELECT session_id FROM sessions WHERE client_id = ? AND session_date = ?",
		clientID, date).Scan(&sessionID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sessionID = generateUUID()
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sessions ("+sessionColumns+") VALUES (?, ?, ?, '', ?, ?)",
			sessionID, clientID, date, now, now,
		); err != nil {
			return "", fmt.Errorf("creating session: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("querying session: %w", err)
	}
	return sessionID, nil
}

// SetSessionNotes replaces the session's notes. Notes are trimmed; empty
// notes clear the field. Intervals are left untouched.
func (b *Backend) SetSessionNotes(ctx context.Context, clientID, date, notes string) (*types.Session, error) {
	if clientID == "" {
		return nil, types.ErrInvalidID
	}
	date, err := types.ParseDate(date)
	if err != nil {
		return nil, err
	}
	notes, err = types.NormalizeNotes(notes)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if _, err := getClient(ctx, b.db, clientID); err != nil {
		return nil, err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning notes transaction: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	sessionID, err := ensureSession(ctx, tx, clientID, date, now)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE sessions SET notes = ?, updated_at = ? WHERE session_id = ?", notes, now, sessionID,
	); err != nil {
		return nil, fmt.Errorf("updating notes: %w", err)
	}

	sess, err := findSession(ctx, tx, clientID, date)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing notes: %w", err)
	}
	if err := b.persist("sessions"); err != nil {
		return nil, err
	}

	b.logger.Info("session notes set", "client_id", clientID, "date", date, "session_id", sessionID)
	return sess, nil
}

// ListSessions returns sessions matching the filter, newest first, without
// their intervals.
func (b *Backend) ListSessions(ctx context.Context, filter types.SessionFilter) ([]types.Session, error) {
	var (
		where []string
		args  []any
	)
	if filter.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.From != "" {
		from, err := types.ParseDate(filter.From)
		if err != nil {
			return nil, err
		}
		where = append(where, "session_date >= ?")
		args = append(args, from)
	}
	if filter.To != "" {
		to, err := types.ParseDate(filter.To)
		if err != nil {
			return nil, err
		}
		where = append(where, "session_date <= ?")
		args = append(args, to)
	}

	query := "SELECT " + sessionColumns + " FROM sessions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY session_date DESC, client_id"

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	out := []types.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// DeleteSession removes a session and all of its intervals.
func (b *Backend) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM intervals WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("deleting intervals: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE session_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, types.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	if err := b.persist("sessions", "intervals"); err != nil {
		return err
	}

	b.logger.Info("session deleted", "session_id", id)
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

const clientColumns = "client_id, name, identifier, notes, created_at, updated_at, archived_at"

// CreateClient validates and stores a new client. An empty ClientID is
// replaced with a generated UUID v7.
func (b *Backend) CreateClient(ctx context.Context, c *types.Client) (string, error) {
	if c == nil {
		return "", types.ErrInvalidData
	}
	if err := c.Validate(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	if c.ClientID == "" {
		c.ClientID = generateUUID()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := b.db.ExecContext(ctx,
		"INSERT INTO clients ("+clientColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.ClientID, c.Name, c.Identifier, c.Notes,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt), formatTimePtr(c.ArchivedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting client: %w", err)
	}
	if err := b.persist("clients"); err != nil {
		return "", err
	}

	b.logger.Info("client created", "client_id", c.ClientID, "name", c.Name)
	return c.ClientID, nil
}

// GetClient returns a client by ID.
func (b *Backend) GetClient(ctx context.Context, id string) (*types.Client, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return getClient(ctx, b.db, id)
}

// ListClients returns clients without an archive date, by name.
func (b *Backend) ListClients(ctx context.Context) ([]types.Client, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE archived_at IS NULL ORDER BY name, client_id")
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	var out []types.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getClient(ctx context.Context, q queryer, id string) (*types.Client, error) {
	row := q.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE client_id = ?", id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, types.ErrNotFound)
	}
	return c, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (*types.Client, error) {
	var (
		c                    types.Client
		createdAt, updatedAt string
		archivedAt           sql.NullString
	)
	if err := s.Scan(&c.ClientID, &c.Name, &c.Identifier, &c.Notes, &createdAt, &updatedAt, &archivedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	c.ArchivedAt = parseTimePtr(archivedAt)
	return &c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseTime reads a stored timestamp. Hand-edited JSONL may carry a bad
// value; it reads as the zero time rather than failing the query.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

const behaviorColumns = "behavior_id, client_id, name, description, color, created_at, archived_at"

// CreateBehavior stores a new behavior as the last column of its client's
// grid. An empty BehaviorID is replaced with a generated UUID v7.
func (b *Backend) CreateBehavior(ctx context.Context, bh *types.Behavior) (string, error) {
	if bh == nil {
		return "", types.ErrInvalidData
	}
	if err := bh.Validate(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	if _, err := getClient(ctx, b.db, bh.ClientID); err != nil {
		return "", err
	}

	var ordinal int
	err := b.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(ordinal) + 1, 0) FROM behaviors WHERE client_id = ?", bh.ClientID,
	).Scan(&ordinal)
	if err != nil {
		return "", fmt.Errorf("computing behavior ordinal: %w", err)
	}

	if bh.BehaviorID == "" {
		bh.BehaviorID = generateUUID()
	}
	if bh.CreatedAt.IsZero() {
		bh.CreatedAt = time.Now().UTC()
	}

	_, err = b.db.ExecContext(ctx,
		"INSERT INTO behaviors (behavior_id, client_id, name, description, color, ordinal, created_at, archived_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		bh.BehaviorID, bh.ClientID, bh.Name, bh.Description, bh.Color, ordinal,
		formatTime(bh.CreatedAt), formatTimePtr(bh.ArchivedAt),
	)
	if err != nil {
		return "", fmt.Errorf("inserting behavior: %w", err)
	}
	if err := b.persist("behaviors"); err != nil {
		return "", err
	}

	b.logger.Info("behavior created", "behavior_id", bh.BehaviorID, "client_id", bh.ClientID, "name", bh.Name)
	return bh.BehaviorID, nil
}

// ListBehaviors returns every behavior of a client in column order,
// archived ones included.
func (b *Backend) ListBehaviors(ctx context.Context, clientID string) ([]types.Behavior, error) {
	return b.listBehaviors(ctx, clientID, false)
}

// ActiveBehaviors returns the client's behaviors without an end date, in
// column order.
func (b *Backend) ActiveBehaviors(ctx context.Context, clientID string) ([]types.Behavior, error) {
	return b.listBehaviors(ctx, clientID, true)
}

func (b *Backend) listBehaviors(ctx context.Context, clientID string, activeOnly bool) ([]types.Behavior, error) {
	if clientID == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if _, err := getClient(ctx, b.db, clientID); err != nil {
		return nil, err
	}
	return queryBehaviors(ctx, b.db, clientID, activeOnly)
}

func queryBehaviors(ctx context.Context, q queryer, clientID string, activeOnly bool) ([]types.Behavior, error) {
	query := "SELECT " + behaviorColumns + " FROM behaviors WHERE client_id = ?"
	if activeOnly {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY ordinal"

	rows, err := q.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("querying behaviors: %w", err)
	}
	defer rows.Close()

	out := []types.Behavior{}
	for rows.Next() {
		var (
			bh         types.Behavior
			createdAt  string
			archivedAt sql.NullString
		)
		if err := rows.Scan(&bh.BehaviorID, &bh.ClientID, &bh.Name, &bh.Description, &bh.Color, &createdAt, &archivedAt); err != nil {
			return nil, fmt.Errorf("scanning behavior: %w", err)
		}
		bh.CreatedAt = parseTime(createdAt)
		bh.ArchivedAt = parseTimePtr(archivedAt)
		out = append(out, bh)
	}
	return out, rows.Err()
}

// UpdateBehavior applies u to the stored behavior. The column position is
// unchanged.
func (b *Backend) UpdateBehavior(ctx context.Context, id string, u types.BehaviorUpdate) (*types.Behavior, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	bh, err := getBehavior(ctx, b.db, id)
	if err != nil {
		return nil, err
	}
	if u.Empty() {
		return bh, nil
	}
	if err := u.Apply(bh); err != nil {
		return nil, err
	}

	if _, err := b.db.ExecContext(ctx,
		"UPDATE behaviors SET name = ?, description = ?, color = ? WHERE behavior_id = ?",
		bh.Name, bh.Description, bh.Color, id,
	); err != nil {
		return nil, fmt.Errorf("updating behavior: %w", err)
	}
	if err := b.persist("behaviors"); err != nil {
		return nil, err
	}

	b.logger.Info("behavior updated", "behavior_id", id, "name", bh.Name)
	return bh, nil
}

func getBehavior(ctx context.Context, q queryer, id string) (*types.Behavior, error) {
	var (
		bh         types.Behavior
		createdAt  string
		archivedAt sql.NullString
	)
	err := q.QueryRowContext(ctx,
		"SELECT "+behaviorColumns+" FROM behaviors WHERE behavior_id = ?", id,
	).Scan(&bh.BehaviorID, &bh.ClientID, &bh.Name, &bh.Description, &bh.Color, &createdAt, &archivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("behavior %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying behavior: %w", err)
	}
	bh.CreatedAt = parseTime(createdAt)
	bh.ArchivedAt = parseTimePtr(archivedAt)
	return &bh, nil
}

// ArchiveBehavior sets the behavior's end date. Archiving an archived
// behavior is a no-op. Stored intervals are kept.
func (b *Backend) ArchiveBehavior(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	var archivedAt sql.NullString
	err := b.db.QueryRowContext(ctx, "SELECT archived_at FROM behaviors WHERE behavior_id = ?", id).Scan(&archivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("behavior %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("querying behavior: %w", err)
	}
	if archivedAt.Valid {
		return nil
	}

	if _, err := b.db.ExecContext(ctx,
		"UPDATE behaviors SET archived_at = ? WHERE behavior_id = ?",
		formatTime(time.Now()), id,
	); err != nil {
		return fmt.Errorf("archiving behavior: %w", err)
	}
	if err := b.persist("behaviors"); err != nil {
		return err
	}

	b.logger.Info("behavior archived", "behavior_id", id)
	return nil
}

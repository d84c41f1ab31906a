package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/scatterplot/pkg/types"
)

// dbFile is the throwaway query database inside DataDir. It is rebuilt from
// the JSONL files on every Attach.
const dbFile = "scatter.db"

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using SQLite as the query engine and JSONL
// files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	logger   *slog.Logger

	syncStrategy string
	pending      map[string]bool // tables whose JSONL rewrite is queued
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for storage events.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger:  slog.New(slog.DiscardHandler),
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, builds a fresh SQLite database and
// loads every JSONL file into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.syncStrategy = config.EffectiveSyncStrategy()
	b.pending = make(map[string]bool)
	b.attached = true

	b.logger.Debug("store attached", "data_dir", dataDir, "sync", b.syncStrategy)
	return nil
}

// Detach releases all resources held by the backend.
// Queued JSONL writes are flushed before the database is closed.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false

	b.logger.Debug("store detached", "data_dir", b.dataDir)
	return nil
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// persist rewrites the JSONL files of the given tables, or queues them when
// the sync strategy is on_close. The caller must hold b.mu write lock.
func (b *Backend) persist(tables ...string) error {
	if b.syncStrategy == types.SyncOnClose {
		for _, t := range tables {
			b.pending[t] = true
		}
		return nil
	}
	for _, t := range tables {
		if err := dumpTable(b.db, b.dataDir, t); err != nil {
			return err
		}
	}
	return nil
}

// flushLocked writes every queued table in load order.
// The caller must hold b.mu write lock.
func (b *Backend) flushLocked() error {
	if len(b.pending) == 0 {
		return nil
	}
	for _, m := range jsonlTableMapping {
		if !b.pending[m.table] {
			continue
		}
		if err := dumpTable(b.db, b.dataDir, m.table); err != nil {
			return err
		}
		delete(b.pending, m.table)
	}
	return nil
}

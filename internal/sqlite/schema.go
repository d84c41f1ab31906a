// Package sqlite implements the SQLite storage backend for scatterplot data.
// SQLite is the query engine; the JSONL files in the data directory are the
// source of truth and are reloaded into a fresh database on every Attach.
package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables.
const (
	createClients = `CREATE TABLE clients (
    client_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    identifier TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    archived_at TEXT
);`

	createBehaviors = `CREATE TABLE behaviors (
    behavior_id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    ordinal INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    archived_at TEXT,
    FOREIGN KEY (client_id) REFERENCES clients(client_id)
);`

	createSessions = `CREATE TABLE sessions (
    session_id TEXT PRIMARY KEY,
    client_id TEXT NOT NULL,
    session_date TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (client_id) REFERENCES clients(client_id)
);`

	createIntervals = `CREATE TABLE intervals (
    session_id TEXT NOT NULL,
    behavior_id TEXT NOT NULL,
    interval_index INTEGER NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (session_id, behavior_id, interval_index),
    FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
    FOREIGN KEY (behavior_id) REFERENCES behaviors(behavior_id)
);`
)

// Index DDL for common queries.
const (
	idxBehaviorsClient    = `CREATE INDEX idx_behaviors_client ON behaviors(client_id, ordinal);`
	idxSessionsClientDate = `CREATE UNIQUE INDEX idx_sessions_client_date ON sessions(client_id, session_date);`
	idxIntervalsSession   = `CREATE INDEX idx_intervals_session ON intervals(session_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createClients,
	createBehaviors,
	createSessions,
	createIntervals,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxBehaviorsClient,
	idxSessionsClientDate,
	idxIntervalsSession,
}

// createSchema executes every table and index statement against db.
func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

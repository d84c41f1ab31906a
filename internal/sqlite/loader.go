// This file implements JSONL loading on attach and table dumps on write.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// tableMapping ties a JSONL file to its SQLite table and the columns carried
// in each record.
type tableMapping struct {
	file    string
	table   string
	columns []string
	orderBy string

	// defaults fill NOT NULL columns that older or hand-written records omit.
	defaults map[string]any
}

// jsonlTableMapping lists every persisted table. The order matters: tables
// with foreign keys must load after their referenced tables.
var jsonlTableMapping = []tableMapping{
	{
		file:     "clients.jsonl",
		table:    "clients",
		columns:  []string{"client_id", "name", "identifier", "notes", "created_at", "updated_at", "archived_at"},
		orderBy:  "created_at, client_id",
		defaults: map[string]any{"identifier": "", "notes": ""},
	},
	{
		file:     "behaviors.jsonl",
		table:    "behaviors",
		columns:  []string{"behavior_id", "client_id", "name", "description", "color", "ordinal", "created_at", "archived_at"},
		orderBy:  "client_id, ordinal",
		defaults: map[string]any{"description": "", "color": ""},
	},
	{
		file:     "sessions.jsonl",
		table:    "sessions",
		columns:  []string{"session_id", "client_id", "session_date", "notes", "created_at", "updated_at"},
		orderBy:  "client_id, session_date",
		defaults: map[string]any{"notes": ""},
	},
	{
		file:    "intervals.jsonl",
		table:   "intervals",
		columns: []string{"session_id", "behavior_id", "interval_index", "value"},
		orderBy: "session_id, interval_index, behavior_id",
	},
}

func mappingFor(table string) (tableMapping, bool) {
	for _, m := range jsonlTableMapping {
		if m.table == table {
			return m, true
		}
	}
	return tableMapping{}, false
}

// initJSONLFiles creates any missing JSONL file so the data directory is
// self-describing after the first Attach.
func initJSONLFiles(dataDir string) error {
	for _, m := range jsonlTableMapping {
		if err := ensureJSONL(filepath.Join(dataDir, m.file)); err != nil {
			return err
		}
	}
	return nil
}

// loadAllJSONL reads each JSONL file from dataDir and inserts the records
// into the corresponding SQLite table inside one transaction. Malformed lines
// and records that violate constraints are skipped. Unknown fields are
// ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range jsonlTableMapping {
		records, err := readJSONL(filepath.Join(dataDir, m.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", m.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, m, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", m.file, m.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into a SQLite table. Only the
// mapped columns are extracted; absent fields take the mapping default or
// insert as NULL.
func insertRecords(tx *sql.Tx, m tableMapping, records []json.RawMessage) error {
	table, columns := m.table, m.columns
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}
		args := make([]any, len(columns))
		for i, col := range columns {
			v, ok := obj[col]
			if !ok || v == nil {
				v = m.defaults[col]
			}
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			// Orphans and duplicates are dropped.
			continue
		}
	}
	return nil
}

// dumpTable rewrites the JSONL file of one table from the current database
// contents. NULL columns are omitted from the record.
func dumpTable(db *sql.DB, dataDir, table string) error {
	m, ok := mappingFor(table)
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	rows, err := db.Query(fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s",
		strings.Join(m.columns, ", "), m.table, m.orderBy,
	))
	if err != nil {
		return fmt.Errorf("querying %s for JSONL: %w", table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		vals := make([]any, len(m.columns))
		ptrs := make([]any, len(m.columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning %s for JSONL: %w", table, err)
		}

		obj := make(map[string]any, len(m.columns))
		for i, col := range m.columns {
			switch v := vals[i].(type) {
			case nil:
			case []byte:
				obj[col] = string(v)
			default:
				obj[col] = v
			}
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return fmt.Errorf("marshaling %s record: %w", table, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", table, err)
	}
	rows.Close()

	return writeJSONL(filepath.Join(dataDir, m.file), records)
}

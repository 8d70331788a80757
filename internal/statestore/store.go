// Package statestore persists UI state (expanded and selected node ID sets)
// in SQLite, keyed by profile name. Because node IDs are derived solely from
// canonical inputs, a saved set remains meaningful across rebuilds and
// process restarts.
package statestore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Set kinds.
const (
	KindExpansion = "expansion"
	KindSelection = "selection"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ui_state (
	profile    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	node_id    TEXT NOT NULL,
	PRIMARY KEY (profile, kind, node_id)
);

CREATE INDEX IF NOT EXISTS idx_ui_state_profile ON ui_state(profile, kind);
`

// DB wraps a sql.DB with state-store operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("statestore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("statestore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("statestore: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveSet replaces the stored ID set for a profile and kind within a
// transaction.
func (db *DB) SaveSet(profile, kind string, ids []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("statestore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM ui_state WHERE profile = ? AND kind = ?`, profile, kind); err != nil {
		return fmt.Errorf("statestore: clear set: %w", err)
	}
	if len(ids) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO ui_state (profile, kind, node_id) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("statestore: prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, id := range ids {
			if _, err := stmt.Exec(profile, kind, id); err != nil {
				return fmt.Errorf("statestore: insert id: %w", err)
			}
		}
	}
	return tx.Commit()
}

// LoadSet returns the stored ID set for a profile and kind; missing sets
// load as empty.
func (db *DB) LoadSet(profile, kind string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT node_id FROM ui_state WHERE profile = ? AND kind = ? ORDER BY node_id`, profile, kind)
	if err != nil {
		return nil, fmt.Errorf("statestore: load set: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Profiles returns every profile name with stored state.
func (db *DB) Profiles() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT profile FROM ui_state ORDER BY profile`)
	if err != nil {
		return nil, fmt.Errorf("statestore: profiles: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

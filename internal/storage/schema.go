package storage

import (
	"database/sql"
	"fmt"
)

// Table and index definitions. Creation is idempotent so it is safe to run
// on every startup against any prior version of the file.
var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		pinned INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		"start" TEXT NOT NULL,
		"end" TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		all_day INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		priority INTEGER NOT NULL DEFAULT 3,
		due_at TEXT,
		tags TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var createIndexStatements = []string{
	"CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title COLLATE NOCASE)",
	"CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at)",
	"CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at)",
	"CREATE INDEX IF NOT EXISTS idx_notes_pinned ON notes(pinned)",
	`CREATE INDEX IF NOT EXISTS idx_events_start ON events("start")`,
	"CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)",
	"CREATE INDEX IF NOT EXISTS idx_events_updated_at ON events(updated_at)",
	"CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)",
	"CREATE INDEX IF NOT EXISTS idx_tasks_due_at ON tasks(due_at)",
	"CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority)",
	"CREATE INDEX IF NOT EXISTS idx_tasks_updated_at ON tasks(updated_at)",
}

// columnDef pairs a column name with its full ADD COLUMN definition,
// including the default that pre-existing rows will receive.
type columnDef struct {
	name       string
	definition string
}

// requiredColumns lists, per table, the columns that older database files may
// lack. Each is added additively; existing data in other columns is left
// untouched.
var requiredColumns = map[string][]columnDef{
	"notes": {
		{"tags", "tags TEXT NOT NULL DEFAULT ''"},
		{"pinned", "pinned INTEGER NOT NULL DEFAULT 0"},
		{"updated_at", "updated_at TEXT"},
	},
	"events": {
		{"location", "location TEXT NOT NULL DEFAULT ''"},
		{"description", "description TEXT NOT NULL DEFAULT ''"},
		{"all_day", "all_day INTEGER NOT NULL DEFAULT 0"},
		{"updated_at", "updated_at TEXT"},
	},
	"tasks": {
		{"description", "description TEXT NOT NULL DEFAULT ''"},
		{"status", "status TEXT NOT NULL DEFAULT 'pending'"},
		{"priority", "priority INTEGER NOT NULL DEFAULT 3"},
		{"due_at", "due_at TEXT"},
		{"tags", "tags TEXT NOT NULL DEFAULT ''"},
		{"updated_at", "updated_at TEXT"},
	},
}

// tableOrder fixes migration iteration order.
var tableOrder = []string{"notes", "events", "tasks"}

// backfillStatements repair rows inserted by a schema version that lacked a
// column, so the record invariants hold for every row regardless of age.
// Each statement is idempotent.
var backfillStatements = []string{
	"UPDATE notes SET updated_at = created_at WHERE updated_at IS NULL",
	"UPDATE notes SET tags = '' WHERE tags IS NULL",
	"UPDATE notes SET pinned = 0 WHERE pinned IS NULL",
	"UPDATE events SET updated_at = created_at WHERE updated_at IS NULL",
	"UPDATE events SET location = '' WHERE location IS NULL",
	"UPDATE events SET description = '' WHERE description IS NULL",
	"UPDATE events SET all_day = 0 WHERE all_day IS NULL",
	"UPDATE tasks SET updated_at = created_at WHERE updated_at IS NULL",
	"UPDATE tasks SET tags = '' WHERE tags IS NULL",
	"UPDATE tasks SET status = 'pending' WHERE status IS NULL",
	"UPDATE tasks SET priority = 3 WHERE priority IS NULL",
}

// initSchema brings the database file to the current logical schema from any
// starting state: fresh file, fully current, or created by an older version.
func (db *DB) initSchema() error {
	for _, stmt := range createTableStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	if err := db.runMigrations(); err != nil {
		return err
	}

	for _, stmt := range createIndexStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	for _, stmt := range backfillStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("backfill: %w", err)
		}
	}

	return nil
}

// runMigrations adds any missing columns to existing tables.
func (db *DB) runMigrations() error {
	for _, table := range tableOrder {
		if err := db.ensureColumns(table, requiredColumns[table]); err != nil {
			return err
		}
	}
	return nil
}

// ensureColumns inspects the live table and issues ADD COLUMN for each
// definition not already present.
func (db *DB) ensureColumns(table string, columns []columnDef) error {
	exists, err := db.tableExists(table)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	existing, err := db.columnNames(table)
	if err != nil {
		return err
	}

	for _, col := range columns {
		if _, ok := existing[col.name]; ok {
			continue
		}
		db.logger.Info("adding column", "table", table, "column", col.name)
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, col.definition)
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, col.name, err)
		}
	}

	return nil
}

func (db *DB) tableExists(table string) (bool, error) {
	var name string
	err := db.conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) columnNames(table string) (map[string]struct{}, error) {
	rows, err := db.conn.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal interface{}
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		names[name] = struct{}{}
	}
	return names, rows.Err()
}

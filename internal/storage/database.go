package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is the UTC timestamp format stored in every date column.
const timeLayout = "2006-01-02 15:04:05.000Z07:00"

// New opens a SQLite database connection at the given path.
// It enables foreign keys, a busy timeout and immediate write transactions on
// every pooled connection, and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables and seeds
// the root note with its placeholder branch.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			note_id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'text',
			mime TEXT NOT NULL DEFAULT 'text/html',
			is_protected INTEGER NOT NULL DEFAULT 0,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			utc_date_created TEXT NOT NULL,
			utc_date_modified TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS note_contents (
			note_id TEXT PRIMARY KEY,
			content BLOB,
			utc_date_modified TEXT NOT NULL,
			FOREIGN KEY (note_id) REFERENCES notes(note_id)
		);`,
		`CREATE TABLE IF NOT EXISTS branches (
			branch_id TEXT PRIMARY KEY,
			note_id TEXT NOT NULL,
			parent_note_id TEXT NOT NULL,
			prefix TEXT NOT NULL DEFAULT '',
			note_position INTEGER NOT NULL DEFAULT 0,
			is_expanded INTEGER NOT NULL DEFAULT 0,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			utc_date_modified TEXT NOT NULL,
			FOREIGN KEY (note_id) REFERENCES notes(note_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_branches_note_parent ON branches(note_id, parent_note_id);`,
		`CREATE INDEX IF NOT EXISTS idx_branches_parent ON branches(parent_note_id);`,
		`CREATE TABLE IF NOT EXISTS attributes (
			attribute_id TEXT PRIMARY KEY,
			note_id TEXT NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			is_inheritable INTEGER NOT NULL DEFAULT 0,
			is_deleted INTEGER NOT NULL DEFAULT 0,
			utc_date_created TEXT NOT NULL,
			utc_date_modified TEXT NOT NULL,
			hash TEXT NOT NULL,
			FOREIGN KEY (note_id) REFERENCES notes(note_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attributes_note ON attributes(note_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attributes_name_value ON attributes(name, value);`,
		`CREATE TABLE IF NOT EXISTS revisions (
			revision_id TEXT PRIMARY KEY,
			note_id TEXT NOT NULL,
			type TEXT NOT NULL,
			mime TEXT NOT NULL,
			title TEXT,
			is_protected INTEGER NOT NULL DEFAULT 0,
			is_erased INTEGER NOT NULL DEFAULT 0,
			content_length INTEGER NOT NULL DEFAULT 0,
			utc_date_last_edited TEXT NOT NULL,
			utc_date_created TEXT NOT NULL,
			utc_date_modified TEXT NOT NULL,
			FOREIGN KEY (note_id) REFERENCES notes(note_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_revisions_note ON revisions(note_id);`,
		`CREATE TABLE IF NOT EXISTS revision_contents (
			revision_id TEXT PRIMARY KEY,
			content BLOB,
			FOREIGN KEY (revision_id) REFERENCES revisions(revision_id)
		);`,
		`CREATE TABLE IF NOT EXISTS entity_changes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_name TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			change_type TEXT NOT NULL,
			utc_date_changed TEXT NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	now := formatTime(time.Now())
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO notes (note_id, title, type, mime, utc_date_created, utc_date_modified)
		 VALUES (?, 'root', 'text', 'text/html', ?, ?)`,
		RootNoteID, now, now,
	); err != nil {
		return fmt.Errorf("failed to seed root note: %w", err)
	}
	if _, err := db.Exec(
		`INSERT OR IGNORE INTO branches (branch_id, note_id, parent_note_id, note_position, is_expanded, utc_date_modified)
		 VALUES (?, ?, ?, 0, 1, ?)`,
		RootBranchID, RootNoteID, NoParentID, now,
	); err != nil {
		return fmt.Errorf("failed to seed root branch: %w", err)
	}

	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// parseTime accepts the stored layout as well as SQLite's CURRENT_TIMESTAMP
// and RFC 3339. Empty strings map to the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// chunkIDs splits ids into groups that fit under SQLite's bound variable limit.
func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func stringArgs(ids []string, extra ...any) []any {
	args := make([]any, 0, len(ids)+len(extra))
	for _, id := range ids {
		args = append(args, id)
	}
	return append(args, extra...)
}

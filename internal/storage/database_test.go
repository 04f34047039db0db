package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

// newTestDB opens a migrated database in a temporary directory.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "valid path",
			path:    dbPath,
			wantErr: false,
		},
		{
			name:    "invalid path",
			path:    "/invalid/path/to/db.db",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.path)

			if tt.wantErr {
				if err == nil {
					t.Errorf("New() expected error, got nil")
				}
				if db != nil {
					_ = db.Close()
				}
				return
			}

			if err != nil {
				t.Errorf("New() unexpected error: %v", err)
				return
			}

			if db == nil {
				t.Fatal("New() returned nil database")
			}

			// Verify connection pool settings
			if db.Stats().MaxOpenConnections != 25 {
				t.Errorf("New() MaxOpenConnections = %v, want 25", db.Stats().MaxOpenConnections)
			}

			_ = db.Close()
		})
	}
}

func TestNew_EnablesForeignKeys(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	var fkEnabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		t.Fatalf("Failed to check foreign keys: %v", err)
	}
	if fkEnabled != 1 {
		t.Error("New() should enable foreign keys")
	}
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	tables := []string{"notes", "note_contents", "branches", "attributes", "revisions", "revision_contents", "entity_changes"}
	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("Migrate() table %s not created", table)
		}
	}
}

func TestMigrate_SeedsRoot(t *testing.T) {
	db := newTestDB(t)

	// Run migrations a second time; the seed must not duplicate.
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() second run error = %v", err)
	}

	var notes, branches int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes WHERE note_id = ?", RootNoteID).Scan(&notes); err != nil {
		t.Fatalf("count root note: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM branches WHERE note_id = ? AND parent_note_id = ?", RootNoteID, NoParentID).Scan(&branches); err != nil {
		t.Fatalf("count root branch: %v", err)
	}
	if notes != 1 || branches != 1 {
		t.Errorf("root seed: notes = %d, branches = %d, want 1 and 1", notes, branches)
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 5, 10, 11, 12, 345000000, time.UTC)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "stored layout", in: formatTime(want), want: want},
		{name: "sqlite current timestamp", in: "2024-03-05 10:11:12", want: want.Truncate(time.Second)},
		{name: "rfc3339", in: "2024-03-05T10:11:12.345Z", want: want},
		{name: "empty", in: "", want: time.Time{}},
		{name: "garbage", in: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTime(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestChunkIDs(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	chunks := chunkIDs(ids, 2)
	if len(chunks) != 3 {
		t.Fatalf("chunkIDs() returned %d chunks, want 3", len(chunks))
	}
	if len(chunks[2]) != 1 || chunks[2][0] != "e" {
		t.Errorf("last chunk = %v, want [e]", chunks[2])
	}
	if got := chunkIDs(nil, 2); len(got) != 0 {
		t.Errorf("chunkIDs(nil) = %v, want empty", got)
	}
	if placeholders(3) != "?,?,?" {
		t.Errorf("placeholders(3) = %q", placeholders(3))
	}
}

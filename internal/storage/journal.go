package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Entity names recorded in the change journal.
const (
	EntityNotes          = "notes"
	EntityBranches       = "branches"
	EntityAttributes     = "attributes"
	EntityRevisions      = "revisions"
	EntityNoteReordering = "note_reordering"
)

// Change types recorded in the change journal.
const (
	ChangeCreate  = "create"
	ChangeUpdate  = "update"
	ChangeDelete  = "delete"
	ChangeReorder = "reorder"
	ChangeErase   = "erase"
)

// Journal records which entities changed so a replication layer can pick
// them up. Nothing in this module reads it back except diagnostics.
type Journal struct {
	db DBTX
}

// NewJournal creates a new Journal.
func NewJournal(db DBTX) *Journal {
	return &Journal{db: db}
}

// RecordChange appends an entry. It is fire-and-forget: failures are logged
// and never abort the mutation that triggered them.
func (j *Journal) RecordChange(ctx context.Context, entityName, entityID, changeType string) {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO entity_changes (entity_name, entity_id, change_type, utc_date_changed) VALUES (?, ?, ?, ?)",
		entityName, entityID, changeType, formatTime(time.Now()),
	)
	if err != nil {
		slog.WarnContext(ctx, "failed to record entity change",
			"entity", entityName, "entity_id", entityID, "change", changeType, "error", err)
	}
}

// Since returns journal entries with an ID greater than afterID in order.
func (j *Journal) Since(ctx context.Context, afterID int64) ([]EntityChange, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, entity_name, entity_id, change_type, utc_date_changed FROM entity_changes WHERE id > ? ORDER BY id",
		afterID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity changes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var changes []EntityChange
	for rows.Next() {
		var c EntityChange
		var changed string
		if err := rows.Scan(&c.ID, &c.EntityName, &c.EntityID, &c.ChangeType, &changed); err != nil {
			return nil, fmt.Errorf("failed to scan entity change: %w", err)
		}
		if c.UtcDateChanged, err = parseTime(changed); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entity changes: %w", err)
	}
	return changes, nil
}

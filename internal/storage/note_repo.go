package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const noteColumns = "note_id, title, type, mime, is_protected, is_deleted, utc_date_created, utc_date_modified"

// NoteRepo provides methods for note operations.
type NoteRepo struct {
	db DBTX
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db DBTX) *NoteRepo {
	return &NoteRepo{db: db}
}

// Get gets a note by ID, deleted or not.
// Returns nil and ErrNotFound if not found.
func (r *NoteRepo) Get(ctx context.Context, noteID string) (*Note, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE note_id = ?", noteID)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return note, nil
}

// GetMany returns the notes with the given IDs, including deleted ones that
// were asked for explicitly. Missing IDs are skipped.
func (r *NoteRepo) GetMany(ctx context.Context, noteIDs []string) ([]*Note, error) {
	var notes []*Note
	for _, chunk := range chunkIDs(noteIDs, inChunk) {
		rows, err := r.db.QueryContext(ctx,
			"SELECT "+noteColumns+" FROM notes WHERE note_id IN ("+placeholders(len(chunk))+")",
			stringArgs(chunk)...,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to query notes: %w", err)
		}
		for rows.Next() {
			note, err := scanNote(rows)
			if err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan note: %w", err)
			}
			notes = append(notes, note)
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate notes: %w", err)
		}
	}
	return notes, nil
}

// Exists reports whether a non-deleted note with the ID exists.
func (r *NoteRepo) Exists(ctx context.Context, noteID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM notes WHERE note_id = ? AND is_deleted = 0", noteID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check note: %w", err)
	}
	return true, nil
}

// Save inserts a new note or updates an existing one. It stamps the creation
// time when unset and always refreshes the modification time.
func (r *NoteRepo) Save(ctx context.Context, note *Note) error {
	now := time.Now().UTC()
	if note.DateCreated.IsZero() {
		note.DateCreated = now
	}
	note.DateModified = now
	if note.Type == "" {
		note.Type = NoteTypeText
	}
	if note.Mime == "" {
		note.Mime = "text/html"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (note_id) DO UPDATE SET
		 title = excluded.title, type = excluded.type, mime = excluded.mime,
		 is_protected = excluded.is_protected, is_deleted = excluded.is_deleted,
		 utc_date_modified = excluded.utc_date_modified`,
		note.NoteID, note.Title, string(note.Type), note.Mime,
		boolToInt(note.IsProtected), boolToInt(note.IsDeleted),
		formatTime(note.DateCreated), formatTime(note.DateModified),
	)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var note Note
	var noteType, created, modified string
	var isProtected, isDeleted int
	if err := row.Scan(&note.NoteID, &note.Title, &noteType, &note.Mime,
		&isProtected, &isDeleted, &created, &modified); err != nil {
		return nil, err
	}
	note.Type = NoteType(noteType)
	note.IsProtected = isProtected != 0
	note.IsDeleted = isDeleted != 0
	note.IsContentAvailable = true

	var err error
	if note.DateCreated, err = parseTime(created); err != nil {
		return nil, err
	}
	if note.DateModified, err = parseTime(modified); err != nil {
		return nil, err
	}
	return &note, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ContentRepo stores note and revision bodies apart from their metadata.
type ContentRepo struct {
	db DBTX
}

// NewContentRepo creates a new ContentRepo.
func NewContentRepo(db DBTX) *ContentRepo {
	return &ContentRepo{db: db}
}

// NoteContent returns the content of noteID. A note without content yields
// nil and no error.
func (r *ContentRepo) NoteContent(ctx context.Context, noteID string) ([]byte, error) {
	return r.get(ctx, "SELECT content FROM note_contents WHERE note_id = ?", noteID)
}

// SetNoteContent replaces the content of noteID. nil clears it.
func (r *ContentRepo) SetNoteContent(ctx context.Context, noteID string, content []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO note_contents (note_id, content, utc_date_modified) VALUES (?, ?, ?)
		 ON CONFLICT (note_id) DO UPDATE SET content = excluded.content, utc_date_modified = excluded.utc_date_modified`,
		noteID, content, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to set note content: %w", err)
	}
	return nil
}

// RevisionContent returns the content of revisionID. Erased or empty
// revisions yield nil and no error.
func (r *ContentRepo) RevisionContent(ctx context.Context, revisionID string) ([]byte, error) {
	return r.get(ctx, "SELECT content FROM revision_contents WHERE revision_id = ?", revisionID)
}

// SetRevisionContent replaces the content of revisionID. nil clears it.
func (r *ContentRepo) SetRevisionContent(ctx context.Context, revisionID string, content []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revision_contents (revision_id, content) VALUES (?, ?)
		 ON CONFLICT (revision_id) DO UPDATE SET content = excluded.content`,
		revisionID, content,
	)
	if err != nil {
		return fmt.Errorf("failed to set revision content: %w", err)
	}
	return nil
}

func (r *ContentRepo) get(ctx context.Context, query, id string) ([]byte, error) {
	var content []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	return content, nil
}

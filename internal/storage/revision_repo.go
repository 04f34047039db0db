package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const revisionColumns = "revision_id, note_id, type, mime, title, is_protected, is_erased, content_length, utc_date_last_edited, utc_date_created, utc_date_modified"

// RevisionRepo provides methods for revision operations.
type RevisionRepo struct {
	db DBTX
}

// NewRevisionRepo creates a new RevisionRepo.
func NewRevisionRepo(db DBTX) *RevisionRepo {
	return &RevisionRepo{db: db}
}

// Get gets a revision by ID, erased or not.
// Returns nil and ErrNotFound if not found.
func (r *RevisionRepo) Get(ctx context.Context, revisionID string) (*Revision, error) {
	rev, err := scanRevision(r.db.QueryRowContext(ctx,
		"SELECT "+revisionColumns+" FROM revisions WHERE revision_id = ?", revisionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query revision: %w", err)
	}
	return rev, nil
}

// Save inserts or updates a revision. A missing ID is generated and unset
// timestamps default to now. Set timestamps are stored as given.
func (r *RevisionRepo) Save(ctx context.Context, rev *Revision) error {
	now := time.Now().UTC()
	if rev.RevisionID == "" {
		rev.RevisionID = uuid.New().String()
	}
	if rev.UtcDateCreated.IsZero() {
		rev.UtcDateCreated = now
	}
	if rev.UtcDateLastEdited.IsZero() {
		rev.UtcDateLastEdited = rev.UtcDateCreated
	}
	if rev.UtcDateModified.IsZero() {
		rev.UtcDateModified = now
	}

	var title sql.NullString
	if rev.Title != "" {
		title = sql.NullString{String: rev.Title, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO revisions (`+revisionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (revision_id) DO UPDATE SET
		 title = excluded.title, is_protected = excluded.is_protected,
		 is_erased = excluded.is_erased, utc_date_modified = excluded.utc_date_modified`,
		rev.RevisionID, rev.NoteID, string(rev.Type), rev.Mime, title,
		boolToInt(rev.IsProtected), boolToInt(rev.IsErased), rev.ContentLength,
		formatTime(rev.UtcDateLastEdited), formatTime(rev.UtcDateCreated), formatTime(rev.UtcDateModified),
	)
	if err != nil {
		return fmt.Errorf("failed to save revision: %w", err)
	}
	return nil
}

// ListActive returns the non-erased revisions of noteID, newest first.
func (r *RevisionRepo) ListActive(ctx context.Context, noteID string) ([]*Revision, error) {
	return r.queryMany(ctx,
		"SELECT "+revisionColumns+" FROM revisions WHERE note_id = ? AND is_erased = 0 ORDER BY utc_date_created DESC, revision_id",
		noteID,
	)
}

// ListByNote returns every revision of noteID including erased ones, newest
// first.
func (r *RevisionRepo) ListByNote(ctx context.Context, noteID string) ([]*Revision, error) {
	return r.queryMany(ctx,
		"SELECT "+revisionColumns+" FROM revisions WHERE note_id = ? ORDER BY utc_date_created DESC, revision_id",
		noteID,
	)
}

func (r *RevisionRepo) queryMany(ctx context.Context, query string, args ...any) ([]*Revision, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query revisions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var revs []*Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate revisions: %w", err)
	}
	return revs, nil
}

func scanRevision(row rowScanner) (*Revision, error) {
	var rev Revision
	var revType, lastEdited, created, modified string
	var title sql.NullString
	var isProtected, isErased int
	if err := row.Scan(&rev.RevisionID, &rev.NoteID, &revType, &rev.Mime, &title,
		&isProtected, &isErased, &rev.ContentLength, &lastEdited, &created, &modified); err != nil {
		return nil, err
	}
	rev.Type = NoteType(revType)
	rev.Title = title.String
	rev.IsProtected = isProtected != 0
	rev.IsErased = isErased != 0

	var err error
	if rev.UtcDateLastEdited, err = parseTime(lastEdited); err != nil {
		return nil, err
	}
	if rev.UtcDateCreated, err = parseTime(created); err != nil {
		return nil, err
	}
	if rev.UtcDateModified, err = parseTime(modified); err != nil {
		return nil, err
	}
	return &rev, nil
}

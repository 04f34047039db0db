// Package revisions manages note snapshots through their lifecycle from
// active to erased.
package revisions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notetree/internal/contextutil"
	"notetree/internal/errs"
	"notetree/internal/session"
	"notetree/internal/storage"
)

// DefaultPreviewLimit is the number of characters shown of a file revision.
const DefaultPreviewLimit = 10000

// Manager creates, reads and erases revisions.
type Manager struct {
	store        *storage.Store
	decrypter    session.Decrypter
	previewLimit int
	now          func() time.Time
}

// NewManager creates a Manager. A non-positive previewLimit selects
// DefaultPreviewLimit.
func NewManager(store *storage.Store, decrypter session.Decrypter, previewLimit int) *Manager {
	if previewLimit <= 0 {
		previewLimit = DefaultPreviewLimit
	}
	return &Manager{
		store:        store,
		decrypter:    decrypter,
		previewLimit: previewLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot records the current state of noteID as a new active revision.
func (m *Manager) Snapshot(ctx context.Context, noteID string) (*storage.Revision, error) {
	var rev *storage.Revision
	err := m.store.InTx(ctx, func(q *storage.Queries) error {
		note, err := q.Notes.Get(ctx, noteID)
		if errors.Is(err, storage.ErrNotFound) {
			return errs.NotFound("note", noteID)
		}
		if err != nil {
			return errs.WrapError(err, "failed to load note")
		}
		if note.IsDeleted {
			return &errs.PreconditionError{Entity: "note", ID: noteID, Message: "is deleted"}
		}
		content, err := q.Contents.NoteContent(ctx, noteID)
		if err != nil {
			return err
		}

		rev = &storage.Revision{
			NoteID:            note.NoteID,
			Type:              note.Type,
			Mime:              note.Mime,
			Title:             note.Title,
			IsProtected:       note.IsProtected,
			ContentLength:     len(content),
			UtcDateLastEdited: note.DateModified,
			UtcDateCreated:    m.now(),
		}
		if err := q.Revisions.Save(ctx, rev); err != nil {
			return err
		}
		if err := q.Contents.SetRevisionContent(ctx, rev.RevisionID, content); err != nil {
			return err
		}
		q.Journal.RecordChange(ctx, storage.EntityRevisions, rev.RevisionID, storage.ChangeCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// List returns the active revisions of noteID, newest first.
func (m *Manager) List(ctx context.Context, noteID string) ([]*storage.Revision, error) {
	revs, err := m.store.Queries().Revisions.ListActive(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if revs == nil {
		revs = []*storage.Revision{}
	}
	return revs, nil
}

// Erase moves a revision to the erased state: its title and content are
// cleared while its identity and timestamps remain. It reports whether the
// revision was erased by this call; erasing an erased revision does nothing.
func (m *Manager) Erase(ctx context.Context, revisionID string) (bool, error) {
	erased, err := m.eraseOne(ctx, revisionID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return false, err
	case err != nil:
		revisionsErased.WithLabelValues("failed").Inc()
		return false, err
	case erased:
		revisionsErased.WithLabelValues("erased").Inc()
	}
	return erased, nil
}

// EraseAll erases every active revision of noteID. Each revision is erased
// on its own; failures are logged, the remaining revisions are still
// attempted and the failures are returned joined.
func (m *Manager) EraseAll(ctx context.Context, noteID string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	revs, err := m.store.Queries().Revisions.ListActive(ctx, noteID)
	if err != nil {
		return 0, err
	}

	var failures []error
	count := 0
	for _, rev := range revs {
		erased, err := m.eraseOne(ctx, rev.RevisionID)
		if err != nil {
			revisionsErased.WithLabelValues("failed").Inc()
			logger.WarnContext(ctx, "failed to erase revision",
				"note_id", noteID, "revision_id", rev.RevisionID, "error", err)
			failures = append(failures, fmt.Errorf("revision %s: %w", rev.RevisionID, err))
			continue
		}
		if erased {
			revisionsErased.WithLabelValues("erased").Inc()
			count++
		}
	}

	logger.InfoContext(ctx, "revisions erased", "note_id", noteID, "erased", count, "failed", len(failures))
	return count, errors.Join(failures...)
}

// eraseOne loads, checks and erases one revision inside a single
// transaction.
func (m *Manager) eraseOne(ctx context.Context, revisionID string) (bool, error) {
	erased := false
	err := m.store.InTx(ctx, func(q *storage.Queries) error {
		rev, err := m.load(ctx, q, revisionID)
		if err != nil {
			return err
		}
		if rev.IsErased {
			return nil
		}
		if err := erase(ctx, q, rev); err != nil {
			return err
		}
		erased = true
		return nil
	})
	return erased, err
}

func erase(ctx context.Context, q *storage.Queries, rev *storage.Revision) error {
	if err := q.Contents.SetRevisionContent(ctx, rev.RevisionID, nil); err != nil {
		return err
	}
	rev.IsErased = true
	rev.Title = ""
	if err := q.Revisions.Save(ctx, rev); err != nil {
		return err
	}
	q.Journal.RecordChange(ctx, storage.EntityRevisions, rev.RevisionID, storage.ChangeErase)
	return nil
}

func (m *Manager) load(ctx context.Context, q *storage.Queries, revisionID string) (*storage.Revision, error) {
	rev, err := q.Revisions.Get(ctx, revisionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("revision", revisionID)
	}
	if err != nil {
		return nil, errs.WrapError(err, "failed to load revision")
	}
	return rev, nil
}

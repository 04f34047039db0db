package service

import (
	"context"
	"encoding/base64"
	"errors"

	"notetree/internal/attributes"
	"notetree/internal/contextutil"
	"notetree/internal/errs"
	"notetree/internal/revisions"
	"notetree/internal/session"
	"notetree/internal/storage"
)

// NoteSummary is a note as listed in the tree.
type NoteSummary struct {
	NoteID      string           `json:"noteId" yaml:"noteId"`
	Title       string           `json:"title" yaml:"title"`
	Type        storage.NoteType `json:"type" yaml:"type"`
	Mime        string           `json:"mime" yaml:"mime"`
	IsProtected bool             `json:"isProtected" yaml:"isProtected"`
	IsDeleted   bool             `json:"isDeleted" yaml:"isDeleted"`
	CSSClass    string           `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	IconClass   string           `json:"iconClass,omitempty" yaml:"iconClass,omitempty"`
	Archived    bool             `json:"isArchived" yaml:"isArchived"`
}

// NoteDetail is a single note with its content.
type NoteDetail struct {
	NoteSummary `yaml:",inline"`

	IsContentAvailable bool   `json:"isContentAvailable" yaml:"isContentAvailable"`
	Content            string `json:"content" yaml:"content"`
	Truncated          bool   `json:"isTruncated,omitempty" yaml:"isTruncated,omitempty"`
}

// ArchiveChecker reports whether a note is archived.
type ArchiveChecker interface {
	IsArchived(noteID string) bool
}

// noteService implements NoteService.
type noteService struct {
	store        *storage.Store
	resolver     *attributes.Resolver
	decrypter    session.Decrypter
	archive      ArchiveChecker
	previewLimit int
}

// NewNoteService creates a new NoteService.
func NewNoteService(store *storage.Store, resolver *attributes.Resolver, decrypter session.Decrypter, archive ArchiveChecker, previewLimit int) NoteService {
	if previewLimit <= 0 {
		previewLimit = revisions.DefaultPreviewLimit
	}
	return &noteService{
		store:        store,
		resolver:     resolver,
		decrypter:    decrypter,
		archive:      archive,
		previewLimit: previewLimit,
	}
}

// GetNotes loads the notes, resolves their display metadata, hides protected
// titles without a session and marks archived notes. Unknown IDs are
// skipped.
func (s *noteService) GetNotes(ctx context.Context, noteIDs []string) ([]NoteSummary, error) {
	if len(noteIDs) == 0 {
		return []NoteSummary{}, nil
	}

	notes, err := s.store.Queries().Notes.GetMany(ctx, noteIDs)
	if err != nil {
		return nil, errs.WrapError(err, "failed to load notes")
	}
	meta, err := s.resolver.ResolveDisplayMetadata(ctx, noteIDs)
	if err != nil {
		return nil, errs.WrapError(err, "failed to resolve display metadata")
	}
	s.decrypter.DecryptNotes(ctx, notes)

	summaries := make([]NoteSummary, len(notes))
	for i, n := range notes {
		summaries[i] = s.summarize(n, meta[n.NoteID])
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "notes loaded",
		"requested", len(noteIDs), "found", len(summaries))
	return summaries, nil
}

// GetNote loads one note with its content. File content is cut to the
// preview limit, image content is base64 encoded and protected content stays
// hidden without a session.
func (s *noteService) GetNote(ctx context.Context, noteID string) (*NoteDetail, error) {
	q := s.store.Queries()
	note, err := q.Notes.Get(ctx, noteID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errs.NotFound("note", noteID)
	}
	if err != nil {
		return nil, errs.WrapError(err, "failed to load note")
	}

	meta, err := s.resolver.ResolveDisplayMetadata(ctx, []string{noteID})
	if err != nil {
		return nil, errs.WrapError(err, "failed to resolve display metadata")
	}
	s.decrypter.DecryptNotes(ctx, []*storage.Note{note})

	detail := &NoteDetail{
		NoteSummary:        s.summarize(note, meta[noteID]),
		IsContentAvailable: note.IsContentAvailable,
	}
	if !note.IsContentAvailable {
		return detail, nil
	}
	if note.Type == storage.NoteTypeFile && !note.IsStringNote() {
		return detail, nil
	}

	content, err := q.Contents.NoteContent(ctx, noteID)
	if err != nil {
		return nil, errs.WrapError(err, "failed to load note content")
	}
	switch {
	case note.Type == storage.NoteTypeFile:
		detail.Content, detail.Truncated = revisions.Truncate(string(content), s.previewLimit)
	case note.Type == storage.NoteTypeImage && len(content) > 0:
		detail.Content = base64.StdEncoding.EncodeToString(content)
	default:
		detail.Content = string(content)
	}
	return detail, nil
}

func (s *noteService) summarize(n *storage.Note, meta attributes.DisplayMetadata) NoteSummary {
	return NoteSummary{
		NoteID:      n.NoteID,
		Title:       n.Title,
		Type:        n.Type,
		Mime:        n.Mime,
		IsProtected: n.IsProtected,
		IsDeleted:   n.IsDeleted,
		CSSClass:    meta.CSSClass,
		IconClass:   meta.IconClass,
		Archived:    s.archive.IsArchived(n.NoteID),
	}
}

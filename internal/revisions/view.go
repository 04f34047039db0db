package revisions

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"strings"

	"notetree/internal/errs"
	"notetree/internal/session"
	"notetree/internal/storage"
)

// View is a revision prepared for display. Content is text for string
// revisions, base64 for images, and empty for binary files.
type View struct {
	*storage.Revision
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Get returns a display view of a revision. File revisions show at most the
// preview limit of characters and image content is base64 encoded. Stored
// content is never modified.
func (m *Manager) Get(ctx context.Context, revisionID string) (*View, error) {
	q := m.store.Queries()
	rev, err := m.load(ctx, q, revisionID)
	if err != nil {
		return nil, err
	}
	view := &View{Revision: rev}

	if rev.IsProtected && !m.decrypter.Available() {
		view.Title = session.ProtectedTitle
		return view, nil
	}
	if rev.Type == storage.NoteTypeFile && !rev.IsStringNote() {
		return view, nil
	}

	content, err := q.Contents.RevisionContent(ctx, revisionID)
	if err != nil {
		return nil, err
	}

	switch {
	case rev.Type == storage.NoteTypeFile:
		view.Content, view.Truncated = Truncate(string(content), m.previewLimit)
	case rev.Type == storage.NoteTypeImage && len(content) > 0:
		view.Content = base64.StdEncoding.EncodeToString(content)
	default:
		view.Content = string(content)
	}
	return view, nil
}

// Truncate cuts s to at most limit characters and reports whether anything
// was cut.
func Truncate(s string, limit int) (string, bool) {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

// Download is a revision's content ready to be served as a file.
type Download struct {
	Filename string
	Mime     string
	Content  []byte
}

// ContentDisposition returns the Content-Disposition header value. The name
// is percent-encoded so only RFC 5987 attr-chars remain.
func (d *Download) ContentDisposition() string {
	name := strings.ReplaceAll(url.QueryEscape(sanitizeFilename(d.Filename)), "+", "%20")
	return fmt.Sprintf(`file; filename="%s"; filename*=UTF-8''%s`, name, name)
}

// Download returns the content of a revision of noteID. The revision must
// belong to noteID and protected revisions need an open session.
func (m *Manager) Download(ctx context.Context, noteID, revisionID string) (*Download, error) {
	q := m.store.Queries()
	rev, err := m.load(ctx, q, revisionID)
	if err != nil {
		return nil, err
	}
	if rev.NoteID != noteID {
		return nil, &errs.ValidationError{
			Field:   "revisionId",
			Message: fmt.Sprintf("revision %s does not belong to note %s", revisionID, noteID),
		}
	}
	if rev.IsProtected && !m.decrypter.Available() {
		return nil, errs.ErrProtectedSession
	}

	content, err := q.Contents.RevisionContent(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	return &Download{Filename: Filename(rev), Mime: rev.Mime, Content: content}, nil
}

// Filename builds the download name of a revision: its title (or
// "untitled"), an extension implied by the note type, and the creation time
// inserted before the extension.
func Filename(rev *storage.Revision) string {
	name := rev.Title
	if name == "" {
		name = "untitled"
	}
	switch rev.Type {
	case storage.NoteTypeText:
		name += ".html"
	case storage.NoteTypeRelationMap, storage.NoteTypeSearch:
		name += ".json"
	}

	stamp := rev.UtcDateCreated.Format("20060102_150405")
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + stamp + ext
}

var unsafeFilenameChars = strings.NewReplacer(
	"/", "", "\\", "", "?", "", "%", "", "*", "", ":", "", "|", "", "\"", "", "<", "", ">", "",
)

func sanitizeFilename(name string) string {
	name = unsafeFilenameChars.Replace(name)
	if strings.TrimSpace(name) == "" {
		return "file"
	}
	return name
}

package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"notetree/internal/contextutil"
	"notetree/internal/errs"
	"notetree/internal/revisions"
	"notetree/internal/service"
	"notetree/internal/storage"
)

// RevisionHandler handles HTTP requests for note revisions.
type RevisionHandler struct {
	revisions service.RevisionService
	markdown  goldmark.Markdown
	template  *template.Template
}

// previewPageData holds template data for rendered revision previews.
type previewPageData struct {
	Title   string
	Created string
	Content template.HTML
}

// EraseAllResponse reports how many revisions an erase-all removed.
type EraseAllResponse struct {
	Erased int `json:"erased"`
}

// NewRevisionHandler creates a new RevisionHandler.
func NewRevisionHandler(revisions service.RevisionService) *RevisionHandler {
	tmpl := template.Must(template.New("revision").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}} &middot; revision</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.6;
    }
    pre {
      background: #f4f4f5;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 6px;
    }
    .meta {
      color: #71717a;
      font-size: 0.9rem;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p class="meta">Revision from {{.Created}}</p>
  </header>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &RevisionHandler{
		revisions: revisions,
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
				extension.Linkify,
				extension.Typographer,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithUnsafe(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// List returns the active revisions of a note, newest first.
func (h *RevisionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	revs, err := h.revisions.List(ctx, chi.URLParam(r, "noteId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list revisions")
		return
	}
	writeJSON(w, ctx, http.StatusOK, NewRevisionResponses(revs))
}

// Snapshot stores the current state of a note as a new revision.
func (h *RevisionHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rev, err := h.revisions.Snapshot(ctx, chi.URLParam(r, "noteId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create revision")
		return
	}
	writeJSON(w, ctx, http.StatusCreated, NewRevisionResponse(rev))
}

// Get returns one revision with its content prepared for display.
func (h *RevisionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, ok := h.view(w, r)
	if !ok {
		return
	}
	resp := NewRevisionResponse(view.Revision)
	resp.Content = view.Content
	resp.Truncated = view.Truncated
	writeJSON(w, ctx, http.StatusOK, resp)
}

// Preview renders a revision as an HTML page. Markdown code revisions go
// through the markdown renderer, text revisions are already HTML and other
// string content is shown preformatted.
func (h *RevisionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	view, ok := h.view(w, r)
	if !ok {
		return
	}

	var body string
	switch {
	case view.Type == storage.NoteTypeText:
		body = view.Content
	case isMarkdown(view.Mime):
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(view.Content), &buf); err != nil {
			logger.ErrorContext(ctx, "failed to render markdown", "revision_id", view.RevisionID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render revision")
			return
		}
		body = buf.String()
	case view.Type == storage.NoteTypeImage:
		body = fmt.Sprintf(`<img src="data:%s;base64,%s" alt="">`, template.HTMLEscapeString(view.Mime), view.Content)
	default:
		body = "<pre>" + template.HTMLEscapeString(view.Content) + "</pre>"
	}

	data := previewPageData{
		Title:   view.Title,
		Created: formatTime(view.UtcDateCreated),
		Content: template.HTML(body),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute revision template", "revision_id", view.RevisionID, "error", err)
	}
}

// Download serves the content of a revision as a file.
func (h *RevisionHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dl, err := h.revisions.Download(ctx, chi.URLParam(r, "noteId"), chi.URLParam(r, "revisionId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to download revision")
		return
	}

	mime := dl.Mime
	if mime == "" {
		mime = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", dl.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(dl.Content); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to write download", "error", err)
	}
}

// Erase erases one revision.
func (h *RevisionHandler) Erase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := h.view(w, r); !ok {
		return
	}
	if _, err := h.revisions.Erase(ctx, chi.URLParam(r, "revisionId")); err != nil {
		handleServiceError(w, ctx, err, "Failed to erase revision")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EraseAll erases every active revision of a note.
func (h *RevisionHandler) EraseAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	n, err := h.revisions.EraseAll(ctx, chi.URLParam(r, "noteId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to erase revisions")
		return
	}
	writeJSON(w, ctx, http.StatusOK, EraseAllResponse{Erased: n})
}

// view loads the revision in the path and checks it belongs to the note in
// the path. It writes the error response itself.
func (h *RevisionHandler) view(w http.ResponseWriter, r *http.Request) (*revisions.View, bool) {
	ctx := r.Context()
	noteID := chi.URLParam(r, "noteId")
	revisionID := chi.URLParam(r, "revisionId")

	view, err := h.revisions.Get(ctx, revisionID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load revision")
		return nil, false
	}
	if view.NoteID != noteID {
		handleServiceError(w, ctx, errs.NotFound("revision", revisionID), "")
		return nil, false
	}
	return view, true
}

func isMarkdown(mime string) bool {
	return strings.HasPrefix(mime, "text/markdown") || strings.HasPrefix(mime, "text/x-markdown")
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notetree/internal/service"
)

// NoteHandler serves notes decorated with their display metadata.
type NoteHandler struct {
	notes service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// DisplayRequest asks for the display data of several notes.
type DisplayRequest struct {
	NoteIDs []string `json:"noteIds" validate:"required,max=1000,dive,required"`
}

// Get returns one note with a preview of its content.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	note, err := h.notes.GetNote(ctx, chi.URLParam(r, "noteId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load note")
		return
	}
	writeJSON(w, ctx, http.StatusOK, note)
}

// Display returns the requested notes with css and icon classes resolved.
func (h *NoteHandler) Display(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DisplayRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, ctx, err, "Invalid request body")
		return
	}

	notes, err := h.notes.GetNotes(ctx, req.NoteIDs)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load notes")
		return
	}
	if notes == nil {
		notes = []service.NoteSummary{}
	}
	writeJSON(w, ctx, http.StatusOK, notes)
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notetree/internal/service"
	"notetree/internal/storage"
)

// AttributeHandler handles HTTP requests for note attributes.
type AttributeHandler struct {
	attributes service.AttributeService
}

// NewAttributeHandler creates a new AttributeHandler.
func NewAttributeHandler(attributes service.AttributeService) *AttributeHandler {
	return &AttributeHandler{attributes: attributes}
}

// AttributeRequest is the body of a save-attribute request. An empty
// attributeId creates a new attribute.
type AttributeRequest struct {
	AttributeID   string `json:"attributeId" validate:"max=64"`
	Type          string `json:"type" validate:"required,oneof=label relation label-definition relation-definition"`
	Name          string `json:"name" validate:"required,max=255"`
	Value         string `json:"value"`
	Position      int    `json:"position" validate:"gte=0"`
	IsInheritable bool   `json:"isInheritable"`
}

// RelationMapRequest asks for the relations among a set of notes.
type RelationMapRequest struct {
	NoteIDs []string `json:"noteIds" validate:"required,max=1000,dive,required"`
}

// Save creates or updates an attribute of the note in the path.
func (h *AttributeHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AttributeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, ctx, err, "Invalid request body")
		return
	}

	attr := &storage.Attribute{
		AttributeID:   req.AttributeID,
		NoteID:        chi.URLParam(r, "noteId"),
		Type:          storage.AttributeType(req.Type),
		Name:          req.Name,
		Position:      req.Position,
		IsInheritable: req.IsInheritable,
	}
	if req.Value != "" {
		attr.Value = storage.RawValue(req.Value)
	}

	if err := h.attributes.Save(ctx, attr); err != nil {
		handleServiceError(w, ctx, err, "Failed to save attribute")
		return
	}
	writeJSON(w, ctx, http.StatusOK, NewAttributeResponse(attr))
}

// List returns the live attributes owned by the note in the path.
func (h *AttributeHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attrs, err := h.attributes.Owned(ctx, chi.URLParam(r, "noteId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list attributes")
		return
	}
	resp := make([]AttributeResponse, len(attrs))
	for i, a := range attrs {
		resp[i] = NewAttributeResponse(a)
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}

// Delete removes an attribute.
func (h *AttributeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.attributes.Delete(ctx, chi.URLParam(r, "attributeId")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete attribute")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RelationMap returns the relations among the requested notes.
func (h *AttributeHandler) RelationMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RelationMapRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, ctx, err, "Invalid request body")
		return
	}

	rm, err := h.attributes.RelationMap(ctx, req.NoteIDs)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to build relation map")
		return
	}
	writeJSON(w, ctx, http.StatusOK, rm)
}

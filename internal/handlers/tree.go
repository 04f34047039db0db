package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"notetree/internal/errs"
	"notetree/internal/ordering"
	"notetree/internal/service"
	"notetree/internal/tree"
)

// TreeHandler handles HTTP requests that change or read the note tree.
type TreeHandler struct {
	tree service.TreeService
}

// NewTreeHandler creates a new TreeHandler.
func NewTreeHandler(tree service.TreeService) *TreeHandler {
	return &TreeHandler{tree: tree}
}

// CloneRequest is the body of a clone request.
type CloneRequest struct {
	Prefix string `json:"prefix" validate:"max=255"`
}

// RelocateRequest is the body of a relocate request. An empty parent detaches
// the branch carrying the prefix.
type RelocateRequest struct {
	ParentNoteID string `json:"parentNoteId" validate:"max=64"`
	Prefix       string `json:"prefix" validate:"max=255"`
}

// SortResponse lists the positions assigned by a sort.
type SortResponse struct {
	Placements []ordering.Placement `json:"placements"`
}

// AuditResponse lists notes sitting on a cycle.
type AuditResponse struct {
	CycleNoteIDs []string `json:"cycleNoteIds"`
}

// Validate reports whether a note may be placed under a parent.
func (h *TreeHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	parentID := q.Get("parentNoteId")
	childID := q.Get("childNoteId")
	if parentID == "" || childID == "" {
		writeError(w, http.StatusBadRequest, "parentNoteId and childNoteId are required")
		return
	}

	v, err := h.tree.ValidateParentChild(ctx, parentID, childID, q.Get("branchId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to validate placement")
		return
	}
	writeJSON(w, ctx, http.StatusOK, v)
}

// Clone places a note under another parent as an additional branch.
func (h *TreeHandler) Clone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CloneRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, ctx, err, "Invalid request body")
			return
		}
	}

	branch, err := h.tree.Clone(ctx, chi.URLParam(r, "noteId"), chi.URLParam(r, "parentNoteId"), req.Prefix)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to clone note")
		return
	}
	writeJSON(w, ctx, http.StatusCreated, NewBranchResponse(branch))
}

// Move moves a branch under another parent.
func (h *TreeHandler) Move(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	branch, err := h.tree.MoveBranch(ctx, chi.URLParam(r, "branchId"), chi.URLParam(r, "parentNoteId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to move branch")
		return
	}
	writeJSON(w, ctx, http.StatusOK, NewBranchResponse(branch))
}

// DeleteBranch removes a branch.
func (h *TreeHandler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.tree.DeleteBranch(ctx, chi.URLParam(r, "branchId")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete branch")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Relocate sets the parent of a note through its prefix-addressed branch.
func (h *TreeHandler) Relocate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RelocateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, ctx, err, "Invalid request body")
		return
	}

	if err := h.tree.Relocate(ctx, chi.URLParam(r, "noteId"), req.Prefix, req.ParentNoteID); err != nil {
		handleServiceError(w, ctx, err, "Failed to relocate note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sort orders the children of a note alphabetically.
func (h *TreeHandler) Sort(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	directoriesFirst := false
	if raw := r.URL.Query().Get("directoriesFirst"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handleServiceError(w, ctx, &errs.ValidationError{Field: "directoriesFirst", Message: "must be a boolean"}, "")
			return
		}
		directoriesFirst = v
	}

	placements, err := h.tree.Resort(ctx, chi.URLParam(r, "noteId"), directoriesFirst)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to sort notes")
		return
	}
	writeJSON(w, ctx, http.StatusOK, SortResponse{Placements: placements})
}

// Children lists the children of a note with their relations.
func (h *TreeHandler) Children(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	children, err := h.tree.Children(ctx, chi.URLParam(r, "noteId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list children")
		return
	}
	if children == nil {
		children = []tree.ChildEntry{}
	}
	writeJSON(w, ctx, http.StatusOK, children)
}

// Audit reports notes reachable from root that sit on a cycle.
func (h *TreeHandler) Audit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := h.tree.Audit(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to audit tree")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, ctx, http.StatusOK, AuditResponse{CycleNoteIDs: ids})
}

package handlers

import (
	"time"

	"notetree/internal/storage"
)

// BranchResponse represents a branch in HTTP and CLI output.
type BranchResponse struct {
	BranchID     string `json:"branchId" yaml:"branchId"`
	NoteID       string `json:"noteId" yaml:"noteId"`
	ParentNoteID string `json:"parentNoteId" yaml:"parentNoteId"`
	Prefix       string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	NotePosition int    `json:"notePosition" yaml:"notePosition"`
	IsExpanded   bool   `json:"isExpanded" yaml:"isExpanded"`
}

// NewBranchResponse converts a stored branch.
func NewBranchResponse(b *storage.Branch) BranchResponse {
	return BranchResponse{
		BranchID:     b.BranchID,
		NoteID:       b.NoteID,
		ParentNoteID: b.ParentNoteID,
		Prefix:       b.Prefix,
		NotePosition: b.NotePosition,
		IsExpanded:   b.IsExpanded,
	}
}

// AttributeResponse represents an attribute in HTTP and CLI output.
type AttributeResponse struct {
	AttributeID     string `json:"attributeId" yaml:"attributeId"`
	NoteID          string `json:"noteId" yaml:"noteId"`
	Type            string `json:"type" yaml:"type"`
	Name            string `json:"name" yaml:"name"`
	Value           string `json:"value" yaml:"value"`
	Position        int    `json:"position" yaml:"position"`
	IsInheritable   bool   `json:"isInheritable" yaml:"isInheritable"`
	UtcDateCreated  string `json:"utcDateCreated" yaml:"utcDateCreated"`
	UtcDateModified string `json:"utcDateModified" yaml:"utcDateModified"`
}

// NewAttributeResponse converts a stored attribute.
func NewAttributeResponse(a *storage.Attribute) AttributeResponse {
	return AttributeResponse{
		AttributeID:     a.AttributeID,
		NoteID:          a.NoteID,
		Type:            string(a.Type),
		Name:            a.Name,
		Value:           a.ValueString(),
		Position:        a.Position,
		IsInheritable:   a.IsInheritable,
		UtcDateCreated:  formatTime(a.UtcDateCreated),
		UtcDateModified: formatTime(a.UtcDateModified),
	}
}

// RevisionResponse represents a revision in HTTP and CLI output.
type RevisionResponse struct {
	RevisionID        string `json:"revisionId" yaml:"revisionId"`
	NoteID            string `json:"noteId" yaml:"noteId"`
	Type              string `json:"type" yaml:"type"`
	Mime              string `json:"mime" yaml:"mime"`
	Title             string `json:"title" yaml:"title"`
	IsProtected       bool   `json:"isProtected" yaml:"isProtected"`
	IsErased          bool   `json:"isErased" yaml:"isErased"`
	ContentLength     int    `json:"contentLength" yaml:"contentLength"`
	UtcDateLastEdited string `json:"utcDateLastEdited" yaml:"utcDateLastEdited"`
	UtcDateCreated    string `json:"utcDateCreated" yaml:"utcDateCreated"`
	Content           string `json:"content,omitempty" yaml:"content,omitempty"`
	Truncated         bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// NewRevisionResponse converts a stored revision.
func NewRevisionResponse(r *storage.Revision) RevisionResponse {
	return RevisionResponse{
		RevisionID:        r.RevisionID,
		NoteID:            r.NoteID,
		Type:              string(r.Type),
		Mime:              r.Mime,
		Title:             r.Title,
		IsProtected:       r.IsProtected,
		IsErased:          r.IsErased,
		ContentLength:     r.ContentLength,
		UtcDateLastEdited: formatTime(r.UtcDateLastEdited),
		UtcDateCreated:    formatTime(r.UtcDateCreated),
	}
}

// NewRevisionResponses converts a list of revisions.
func NewRevisionResponses(revs []*storage.Revision) []RevisionResponse {
	out := make([]RevisionResponse, len(revs))
	for i, r := range revs {
		out[i] = NewRevisionResponse(r)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

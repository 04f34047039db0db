package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	// RootNoteID is the single note without a parent.
	RootNoteID = "root"
	// NoParentID is the placeholder parent of the root branch.
	NoParentID = "none"
	// RootBranchID is the branch attaching root to NoParentID.
	RootBranchID = "root"
)

// NoteType enumerates the kinds of note content.
type NoteType string

const (
	NoteTypeText        NoteType = "text"
	NoteTypeCode        NoteType = "code"
	NoteTypeFile        NoteType = "file"
	NoteTypeImage       NoteType = "image"
	NoteTypeSearch      NoteType = "search"
	NoteTypeRelationMap NoteType = "relation-map"
	NoteTypeBook        NoteType = "book"
	NoteTypeRender      NoteType = "render"
)

// Note is a content item. Its content lives in note_contents.
type Note struct {
	NoteID      string
	Title       string
	Type        NoteType
	Mime        string
	IsProtected bool
	IsDeleted   bool
	// IsContentAvailable is false for protected notes read without a session.
	// It is never persisted.
	IsContentAvailable bool
	DateCreated        time.Time
	DateModified       time.Time
}

// IsStringNote reports whether the note content is textual.
func (n *Note) IsStringNote() bool {
	return isStringContent(n.Type, n.Mime)
}

// Branch places a note under a parent note. A note with several live branches
// is a clone.
type Branch struct {
	BranchID     string
	NoteID       string
	ParentNoteID string
	Prefix       string
	NotePosition int
	IsExpanded   bool
	IsDeleted    bool
	DateModified time.Time
}

// Sibling is a live child branch joined with its note, as used for ordering.
type Sibling struct {
	BranchID     string
	NotePosition int
	Note         Note
	HasChildren  bool
}

// AttributeType enumerates attribute kinds.
type AttributeType string

const (
	AttributeTypeLabel              AttributeType = "label"
	AttributeTypeRelation           AttributeType = "relation"
	AttributeTypeLabelDefinition    AttributeType = "label-definition"
	AttributeTypeRelationDefinition AttributeType = "relation-definition"
)

// IsDefinition reports whether values of this type carry a schema.
func (t AttributeType) IsDefinition() bool {
	return t == AttributeTypeLabelDefinition || t == AttributeTypeRelationDefinition
}

// Valid reports whether t is a known attribute type.
func (t AttributeType) Valid() bool {
	switch t {
	case AttributeTypeLabel, AttributeTypeRelation, AttributeTypeLabelDefinition, AttributeTypeRelationDefinition:
		return true
	}
	return false
}

// Attribute is a typed key/value fact owned by one note.
type Attribute struct {
	AttributeID     string
	NoteID          string
	Type            AttributeType
	Name            string
	Value           AttributeValue // nil means absent
	Position        int
	IsInheritable   bool
	IsDeleted       bool
	UtcDateCreated  time.Time
	UtcDateModified time.Time
}

// ValueString returns the persisted form of the value ("" when absent).
func (a *Attribute) ValueString() string {
	if a.Value == nil {
		return ""
	}
	return a.Value.String()
}

// Hash digests the properties that define the persisted identity of the
// attribute. Two attributes with equal hashes are considered unchanged.
func (a *Attribute) Hash() string {
	parts := []string{
		a.AttributeID,
		a.NoteID,
		string(a.Type),
		a.Name,
		a.ValueString(),
		strconv.FormatBool(a.IsInheritable),
		strconv.FormatBool(a.IsDeleted),
		formatTime(a.UtcDateCreated),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// LabelRow is a (note, name, value) triple used when resolving display
// metadata. For template labels NoteID is the note referencing the template.
type LabelRow struct {
	NoteID string
	Name   string
	Value  string
}

// Revision is a snapshot of a note. Only the erase transition mutates it.
type Revision struct {
	RevisionID        string
	NoteID            string
	Type              NoteType
	Mime              string
	Title             string
	IsProtected       bool
	IsErased          bool
	ContentLength     int
	UtcDateLastEdited time.Time
	UtcDateCreated    time.Time
	UtcDateModified   time.Time
}

// IsStringNote reports whether the revision content is textual.
func (r *Revision) IsStringNote() bool {
	return isStringContent(r.Type, r.Mime)
}

// EntityChange is one entry of the change journal.
type EntityChange struct {
	ID             int64
	EntityName     string
	EntityID       string
	ChangeType     string
	UtcDateChanged time.Time
}

var stringMimes = map[string]bool{
	"application/json":         true,
	"application/javascript":   true,
	"application/x-javascript": true,
	"application/xml":          true,
	"application/x-sh":         true,
	"image/svg+xml":            true,
}

func isStringContent(t NoteType, mime string) bool {
	switch t {
	case NoteTypeText, NoteTypeCode, NoteTypeSearch, NoteTypeRelationMap:
		return true
	}
	return strings.HasPrefix(mime, "text/") || stringMimes[mime]
}

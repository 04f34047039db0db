// Package service exposes the tree, attribute, revision and note operations
// to transports through consumer-facing interfaces.
package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_tree_service.go -package=mocks -mock_names=TreeService=MockTreeService notetree/internal/service TreeService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_attribute_service.go -package=mocks -mock_names=AttributeService=MockAttributeService notetree/internal/service AttributeService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_revision_service.go -package=mocks -mock_names=RevisionService=MockRevisionService notetree/internal/service RevisionService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_service.go -package=mocks -mock_names=NoteService=MockNoteService notetree/internal/service NoteService

import (
	"context"

	"notetree/internal/attributes"
	"notetree/internal/ordering"
	"notetree/internal/revisions"
	"notetree/internal/storage"
	"notetree/internal/tree"
)

// TreeService validates and applies structural changes to the note tree.
type TreeService interface {
	// ValidateParentChild reports whether childID may be placed under parentID.
	ValidateParentChild(ctx context.Context, parentID, childID, excludeBranchID string) (tree.Validation, error)
	// Clone adds a branch placing noteID under parentID.
	Clone(ctx context.Context, noteID, parentID, prefix string) (*storage.Branch, error)
	// MoveBranch moves a branch under newParentID.
	MoveBranch(ctx context.Context, branchID, newParentID string) (*storage.Branch, error)
	// DeleteBranch removes a branch from the tree.
	DeleteBranch(ctx context.Context, branchID string) error
	// Relocate is the prefix-addressed placement path.
	Relocate(ctx context.Context, noteID, prefix, newParentID string) error
	// Resort orders the children of parentID alphabetically.
	Resort(ctx context.Context, parentID string, directoriesFirst bool) ([]ordering.Placement, error)
	// Children lists the children of parentID with their relations.
	Children(ctx context.Context, parentID string) ([]tree.ChildEntry, error)
	// Audit lists notes reachable from root that sit on a cycle.
	Audit(ctx context.Context) ([]string, error)
}

// AttributeService writes attributes and resolves what notes inherit.
type AttributeService interface {
	// Save stores an attribute, applying defaults.
	Save(ctx context.Context, attr *storage.Attribute) error
	// Delete marks an attribute deleted.
	Delete(ctx context.Context, attributeID string) error
	// Owned lists the live attributes of a note.
	Owned(ctx context.Context, noteID string) ([]*storage.Attribute, error)
	// ResolveDisplayMetadata derives css and icon classes for notes.
	ResolveDisplayMetadata(ctx context.Context, noteIDs []string) (map[string]attributes.DisplayMetadata, error)
	// RelationMap describes the relations among notes.
	RelationMap(ctx context.Context, noteIDs []string) (*attributes.RelationMap, error)
}

// RevisionService manages note revisions.
type RevisionService interface {
	Snapshot(ctx context.Context, noteID string) (*storage.Revision, error)
	List(ctx context.Context, noteID string) ([]*storage.Revision, error)
	Get(ctx context.Context, revisionID string) (*revisions.View, error)
	Download(ctx context.Context, noteID, revisionID string) (*revisions.Download, error)
	Erase(ctx context.Context, revisionID string) (bool, error)
	EraseAll(ctx context.Context, noteID string) (int, error)
}

// NoteService reads notes decorated with their display metadata.
type NoteService interface {
	// GetNotes returns the requested notes, deleted ones included.
	GetNotes(ctx context.Context, noteIDs []string) ([]NoteSummary, error)
	// GetNote returns one note with a preview of its content.
	GetNote(ctx context.Context, noteID string) (*NoteDetail, error)
}

var (
	_ TreeService     = (*tree.Manager)(nil)
	_ RevisionService = (*revisions.Manager)(nil)
)

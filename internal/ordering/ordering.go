// Package ordering assigns sibling positions under a parent note.
package ordering

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"notetree/internal/session"
	"notetree/internal/storage"
)

// PositionStep is the gap between consecutive sibling positions.
const PositionStep = 10

// Placement is the position assigned to one child branch.
type Placement struct {
	BranchID string `json:"branchId" yaml:"branchId"`
	NoteID   string `json:"noteId" yaml:"noteId"`
	Title    string `json:"title" yaml:"title"`
	Position int    `json:"position" yaml:"position"`
}

// Engine sorts the children of a parent and rewrites their positions.
type Engine struct {
	decrypter session.Decrypter
}

// NewEngine creates an Engine that reads titles through decrypter.
func NewEngine(decrypter session.Decrypter) *Engine {
	return &Engine{decrypter: decrypter}
}

// AssignPositions sorts the live children of parentID and stores positions
// 10, 20, 30 ... in the sorted order. q is expected to be bound to a
// transaction so a failure leaves the previous order intact.
func (e *Engine) AssignPositions(ctx context.Context, q *storage.Queries, parentID string, directoriesFirst bool) ([]Placement, error) {
	siblings, err := q.Branches.Siblings(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load children of %s: %w", parentID, err)
	}

	notes := make([]*storage.Note, len(siblings))
	for i := range siblings {
		notes[i] = &siblings[i].Note
	}
	e.decrypter.DecryptNotes(ctx, notes)

	placements := Sort(siblings, directoriesFirst)
	for _, p := range placements {
		if err := q.Branches.UpdatePosition(ctx, p.BranchID, p.Position); err != nil {
			return nil, fmt.Errorf("failed to position branch %s: %w", p.BranchID, err)
		}
	}
	return placements, nil
}

// Sort orders siblings and numbers them from PositionStep in steps of
// PositionStep. With directoriesFirst, a note with children precedes one
// without. Otherwise titles compare case-insensitively; ties keep the
// incoming order.
func Sort(siblings []storage.Sibling, directoriesFirst bool) []Placement {
	sorted := slices.Clone(siblings)
	slices.SortStableFunc(sorted, func(a, b storage.Sibling) int {
		if directoriesFirst && a.HasChildren != b.HasChildren {
			if a.HasChildren {
				return -1
			}
			return 1
		}
		return cmp.Compare(strings.ToLower(a.Note.Title), strings.ToLower(b.Note.Title))
	})

	placements := make([]Placement, len(sorted))
	for i, s := range sorted {
		placements[i] = Placement{
			BranchID: s.BranchID,
			NoteID:   s.Note.NoteID,
			Title:    s.Note.Title,
			Position: (i + 1) * PositionStep,
		}
	}
	return placements
}

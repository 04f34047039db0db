// Package tree maintains the branch graph: which notes sit under which
// parents, and the rules that keep that graph a tree reachable from root.
package tree

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notetree/internal/contextutil"
	"notetree/internal/errs"
	"notetree/internal/ordering"
	"notetree/internal/session"
	"notetree/internal/storage"
)

// Rejection reasons returned by ValidateParentChild.
const (
	ReasonMoveRoot   = "Cannot move root note."
	ReasonRootParent = "Cannot move anything into root parent."
	ReasonDuplicate  = "This note already exists in the target."
	ReasonCycle      = "Moving/cloning note here would create cycle."
	ReasonIncomplete = "Cycle check could not complete; mutation rejected."
)

const (
	defaultBudget       = 100000
	defaultCycleTimeout = 5 * time.Second
)

// Validation is the outcome of a parent/child check.
type Validation struct {
	OK     bool   `json:"success" yaml:"success"`
	Reason string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Err converts a rejection into an error. Incomplete cycle checks wrap
// errs.ErrTraversalBudget; every other rejection is a ValidationError.
func (v Validation) Err() error {
	switch {
	case v.OK:
		return nil
	case v.Reason == ReasonIncomplete:
		return fmt.Errorf("%s: %w", v.Reason, errs.ErrTraversalBudget)
	default:
		return &errs.ValidationError{Message: v.Reason}
	}
}

// Options tunes a Manager. Zero values select the defaults.
type Options struct {
	TraversalBudget   int
	CycleCheckTimeout time.Duration
}

// Manager validates and applies structural changes to the branch graph.
// It holds no locks; callers serialize structural mutations.
type Manager struct {
	store     *storage.Store
	orderer   *ordering.Engine
	decrypter session.Decrypter
	budget    int
	timeout   time.Duration
}

// NewManager creates a Manager.
func NewManager(store *storage.Store, orderer *ordering.Engine, decrypter session.Decrypter, opts Options) *Manager {
	m := &Manager{
		store:     store,
		orderer:   orderer,
		decrypter: decrypter,
		budget:    opts.TraversalBudget,
		timeout:   opts.CycleCheckTimeout,
	}
	if m.budget <= 0 {
		m.budget = defaultBudget
	}
	if m.timeout <= 0 {
		m.timeout = defaultCycleTimeout
	}
	return m
}

// ValidateParentChild decides whether childID may be placed under parentID.
// excludeBranchID names a branch being moved, which must not count as an
// existing placement. It has no side effects.
func (m *Manager) ValidateParentChild(ctx context.Context, parentID, childID, excludeBranchID string) (Validation, error) {
	return m.validate(ctx, m.store.Queries(), parentID, childID, excludeBranchID)
}

func (m *Manager) validate(ctx context.Context, q *storage.Queries, parentID, childID, excludeBranchID string) (Validation, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if childID == storage.RootNoteID {
		validationsTotal.WithLabelValues(resultRoot).Inc()
		return Validation{Reason: ReasonMoveRoot}, nil
	}
	if parentID == storage.NoParentID {
		validationsTotal.WithLabelValues(resultPlaceholder).Inc()
		return Validation{Reason: ReasonRootParent}, nil
	}

	existing, err := q.Branches.Existing(ctx, parentID, childID)
	switch {
	case err == nil && existing.BranchID != excludeBranchID:
		validationsTotal.WithLabelValues(resultDuplicate).Inc()
		return Validation{Reason: ReasonDuplicate}, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return Validation{}, errs.WrapError(err, "failed to look up existing branch")
	}

	ok, err := m.checkTreeCycle(ctx, q, parentID, childID)
	if err != nil {
		if errors.Is(err, errs.ErrTraversalBudget) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			logger.WarnContext(ctx, "cycle check incomplete, rejecting",
				"parent_note_id", parentID, "child_note_id", childID, "error", err)
			validationsTotal.WithLabelValues(resultUnknown).Inc()
			return Validation{Reason: ReasonIncomplete}, nil
		}
		return Validation{}, errs.WrapError(err, "failed to check tree cycle")
	}
	if !ok {
		validationsTotal.WithLabelValues(resultCycle).Inc()
		return Validation{Reason: ReasonCycle}, nil
	}

	validationsTotal.WithLabelValues(resultOK).Inc()
	return Validation{OK: true}, nil
}

// Clone places noteID under parentID as an additional branch at the end of
// the parent's children.
func (m *Manager) Clone(ctx context.Context, noteID, parentID, prefix string) (*storage.Branch, error) {
	var branch *storage.Branch
	err := m.store.InTx(ctx, func(q *storage.Queries) error {
		if err := requireLiveNote(ctx, q, noteID, "note"); err != nil {
			return err
		}
		if err := requireLiveNote(ctx, q, parentID, "parent note"); err != nil {
			return err
		}

		v, err := m.validate(ctx, q, parentID, noteID, "")
		if err != nil {
			return err
		}
		if err := v.Err(); err != nil {
			return err
		}

		branch, err = appendBranch(ctx, q, &storage.Branch{NoteID: noteID, ParentNoteID: parentID, Prefix: prefix})
		return err
	})
	if err != nil {
		return nil, err
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "note cloned",
		"note_id", noteID, "parent_note_id", parentID, "branch_id", branch.BranchID)
	return branch, nil
}

// MoveBranch moves the branch to the end of newParentID. The old branch is
// marked deleted and a new branch takes its place.
func (m *Manager) MoveBranch(ctx context.Context, branchID, newParentID string) (*storage.Branch, error) {
	var moved *storage.Branch
	err := m.store.InTx(ctx, func(q *storage.Queries) error {
		old, err := q.Branches.Get(ctx, branchID)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && old.IsDeleted) {
			return errs.NotFound("branch", branchID)
		}
		if err != nil {
			return errs.WrapError(err, "failed to load branch")
		}
		if err := requireLiveNote(ctx, q, newParentID, "parent note"); err != nil {
			return err
		}

		v, err := m.validate(ctx, q, newParentID, old.NoteID, branchID)
		if err != nil {
			return err
		}
		if err := v.Err(); err != nil {
			return err
		}

		old.IsDeleted = true
		if err := q.Branches.Save(ctx, old); err != nil {
			return err
		}
		q.Journal.RecordChange(ctx, storage.EntityBranches, old.BranchID, storage.ChangeDelete)

		moved, err = appendBranch(ctx, q, &storage.Branch{
			NoteID:       old.NoteID,
			ParentNoteID: newParentID,
			Prefix:       old.Prefix,
			IsExpanded:   old.IsExpanded,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Relocate is the legacy placement path. It finds the live branch of noteID
// carrying prefix; an empty newParentID detaches that branch, otherwise the
// branch is repointed to newParentID. Without such a branch, an existing
// newParentID -> noteID branch takes the prefix, or a new branch is created.
// The root note cannot be relocated.
func (m *Manager) Relocate(ctx context.Context, noteID, prefix, newParentID string) error {
	if noteID == storage.RootNoteID {
		validationsTotal.WithLabelValues(resultRoot).Inc()
		return Validation{Reason: ReasonMoveRoot}.Err()
	}
	return m.store.InTx(ctx, func(q *storage.Queries) error {
		if newParentID != "" {
			if err := requireLiveNote(ctx, q, newParentID, "parent note"); err != nil {
				return err
			}
		}

		branch, err := q.Branches.FindByNoteAndPrefix(ctx, noteID, prefix)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return errs.WrapError(err, "failed to find branch")
		}

		if branch != nil {
			if newParentID == "" {
				branch.IsDeleted = true
				if err := q.Branches.Save(ctx, branch); err != nil {
					return err
				}
				q.Journal.RecordChange(ctx, storage.EntityBranches, branch.BranchID, storage.ChangeDelete)
				return nil
			}

			v, err := m.validate(ctx, q, newParentID, noteID, branch.BranchID)
			if err != nil {
				return err
			}
			if err := v.Err(); err != nil {
				return err
			}
			branch.ParentNoteID = newParentID
			branch.Prefix = prefix
			if err := q.Branches.Save(ctx, branch); err != nil {
				return err
			}
			q.Journal.RecordChange(ctx, storage.EntityBranches, branch.BranchID, storage.ChangeUpdate)
			return nil
		}

		if newParentID == "" {
			return nil
		}

		if err := requireLiveNote(ctx, q, noteID, "note"); err != nil {
			return err
		}

		existing, err := q.Branches.Existing(ctx, newParentID, noteID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return errs.WrapError(err, "failed to look up existing branch")
		}
		if existing != nil {
			existing.Prefix = prefix
			if err := q.Branches.Save(ctx, existing); err != nil {
				return err
			}
			q.Journal.RecordChange(ctx, storage.EntityBranches, existing.BranchID, storage.ChangeUpdate)
			return nil
		}

		v, err := m.validate(ctx, q, newParentID, noteID, "")
		if err != nil {
			return err
		}
		if err := v.Err(); err != nil {
			return err
		}
		_, err = appendBranch(ctx, q, &storage.Branch{NoteID: noteID, ParentNoteID: newParentID, Prefix: prefix})
		return err
	})
}

// DeleteBranch marks a branch deleted. The root branch cannot be deleted.
func (m *Manager) DeleteBranch(ctx context.Context, branchID string) error {
	if branchID == storage.RootBranchID {
		return &errs.ValidationError{Field: "branchId", Message: "cannot delete the root branch"}
	}
	return m.store.InTx(ctx, func(q *storage.Queries) error {
		branch, err := q.Branches.Get(ctx, branchID)
		if errors.Is(err, storage.ErrNotFound) {
			return errs.NotFound("branch", branchID)
		}
		if err != nil {
			return errs.WrapError(err, "failed to load branch")
		}
		if branch.IsDeleted {
			return nil
		}
		branch.IsDeleted = true
		if err := q.Branches.Save(ctx, branch); err != nil {
			return err
		}
		q.Journal.RecordChange(ctx, storage.EntityBranches, branchID, storage.ChangeDelete)
		return nil
	})
}

// Resort rewrites the positions of the children of parentID as one atomic
// unit and journals the reordering.
func (m *Manager) Resort(ctx context.Context, parentID string, directoriesFirst bool) ([]ordering.Placement, error) {
	var placements []ordering.Placement
	err := m.store.InTx(ctx, func(q *storage.Queries) error {
		if _, err := q.Notes.Get(ctx, parentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errs.NotFound("note", parentID)
			}
			return errs.WrapError(err, "failed to load parent note")
		}

		var err error
		placements, err = m.orderer.AssignPositions(ctx, q, parentID, directoriesFirst)
		if err != nil {
			return err
		}
		q.Journal.RecordChange(ctx, storage.EntityNoteReordering, parentID, storage.ChangeReorder)
		return nil
	})
	if err != nil {
		return nil, err
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "children resorted",
		"parent_note_id", parentID, "count", len(placements), "directories_first", directoriesFirst)
	return placements, nil
}

// Relation is an outgoing relation of a child note.
type Relation struct {
	AttributeID  string `json:"attributeId" yaml:"attributeId"`
	Name         string `json:"name" yaml:"name"`
	TargetNoteID string `json:"targetNoteId" yaml:"targetNoteId"`
}

// ChildEntry describes one child of a parent note.
type ChildEntry struct {
	NoteID    string     `json:"noteId" yaml:"noteId"`
	Title     string     `json:"title" yaml:"title"`
	BranchID  string     `json:"branchId" yaml:"branchId"`
	Position  int        `json:"notePosition" yaml:"notePosition"`
	Relations []Relation `json:"relations" yaml:"relations"`
}

// Children lists the live children of parentID in position order together
// with their relations.
func (m *Manager) Children(ctx context.Context, parentID string) ([]ChildEntry, error) {
	q := m.store.Queries()
	if _, err := q.Notes.Get(ctx, parentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.NotFound("note", parentID)
		}
		return nil, errs.WrapError(err, "failed to load parent note")
	}

	siblings, err := q.Branches.Siblings(ctx, parentID)
	if err != nil {
		return nil, err
	}
	notes := make([]*storage.Note, len(siblings))
	ids := make([]string, len(siblings))
	for i := range siblings {
		notes[i] = &siblings[i].Note
		ids[i] = siblings[i].Note.NoteID
	}
	m.decrypter.DecryptNotes(ctx, notes)

	relations, err := q.Attributes.ListByType(ctx, ids, storage.AttributeTypeRelation)
	if err != nil {
		return nil, err
	}
	byNote := make(map[string][]Relation)
	for _, r := range relations {
		byNote[r.NoteID] = append(byNote[r.NoteID], Relation{
			AttributeID:  r.AttributeID,
			Name:         r.Name,
			TargetNoteID: r.ValueString(),
		})
	}

	entries := make([]ChildEntry, len(siblings))
	for i, s := range siblings {
		rels := byNote[s.Note.NoteID]
		if rels == nil {
			rels = []Relation{}
		}
		entries[i] = ChildEntry{
			NoteID:    s.Note.NoteID,
			Title:     s.Note.Title,
			BranchID:  s.BranchID,
			Position:  s.NotePosition,
			Relations: rels,
		}
	}
	return entries, nil
}

func requireLiveNote(ctx context.Context, q *storage.Queries, noteID, entity string) error {
	note, err := q.Notes.Get(ctx, noteID)
	if errors.Is(err, storage.ErrNotFound) {
		return errs.NotFound(entity, noteID)
	}
	if err != nil {
		return errs.WrapError(err, "failed to load "+entity)
	}
	if note.IsDeleted {
		return &errs.PreconditionError{Entity: entity, ID: noteID, Message: "is deleted"}
	}
	return nil
}

// appendBranch saves branch after the last child of its parent and journals
// it.
func appendBranch(ctx context.Context, q *storage.Queries, branch *storage.Branch) (*storage.Branch, error) {
	last, err := q.Branches.MaxPosition(ctx, branch.ParentNoteID)
	if err != nil {
		return nil, err
	}
	branch.NotePosition = last + ordering.PositionStep
	if err := q.Branches.Save(ctx, branch); err != nil {
		return nil, err
	}
	q.Journal.RecordChange(ctx, storage.EntityBranches, branch.BranchID, storage.ChangeCreate)
	return branch, nil
}

package tree

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notetree/internal/errs"
	"notetree/internal/ordering"
	"notetree/internal/session"
	"notetree/internal/storage"
)

type fixture struct {
	store   *storage.Store
	manager *Manager
	// branches maps "parent/child" to the branch ID created by attach.
	branches map[string]string
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.Migrate(db))

	store := storage.NewStore(db)
	sess := session.NewService(true)
	return &fixture{
		store:    store,
		manager:  NewManager(store, ordering.NewEngine(sess), sess, opts),
		branches: map[string]string{},
	}
}

func (f *fixture) note(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.store.Queries().Notes.Save(context.Background(), &storage.Note{NoteID: id, Title: id}))
}

// attach writes a branch directly, bypassing validation.
func (f *fixture) attach(t *testing.T, parentID, childID string, pos int) {
	t.Helper()
	b := &storage.Branch{NoteID: childID, ParentNoteID: parentID, NotePosition: pos}
	require.NoError(t, f.store.Queries().Branches.Save(context.Background(), b))
	f.branches[parentID+"/"+childID] = b.BranchID
}

// chain builds root -> a -> b -> c.
func (f *fixture) chain(t *testing.T) {
	t.Helper()
	for _, id := range []string{"a", "b", "c"} {
		f.note(t, id)
	}
	f.attach(t, storage.RootNoteID, "a", 10)
	f.attach(t, "a", "b", 10)
	f.attach(t, "b", "c", 10)
}

func TestManager_ValidateParentChild(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	f.note(t, "x")
	f.attach(t, storage.RootNoteID, "x", 20)
	ctx := context.Background()

	tests := []struct {
		name      string
		parentID  string
		childID   string
		exclude   string
		wantOK    bool
		wantReason string
	}{
		{name: "move root", parentID: "a", childID: storage.RootNoteID, wantReason: ReasonMoveRoot},
		{name: "into placeholder parent", parentID: storage.NoParentID, childID: "x", wantReason: ReasonRootParent},
		{name: "duplicate placement", parentID: "a", childID: "b", wantReason: ReasonDuplicate},
		{name: "duplicate excluded", parentID: "a", childID: "b", exclude: "@a/b", wantOK: true},
		{name: "under own descendant", parentID: "c", childID: "a", wantReason: ReasonCycle},
		{name: "under itself", parentID: "b", childID: "b", wantReason: ReasonCycle},
		{name: "sibling subtree", parentID: "c", childID: "x", wantOK: true},
		{name: "under root", parentID: storage.RootNoteID, childID: "c", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exclude := tt.exclude
			if exclude != "" && exclude[0] == '@' {
				exclude = f.branches[exclude[1:]]
			}
			v, err := f.manager.ValidateParentChild(ctx, tt.parentID, tt.childID, exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, v.OK)
			assert.Equal(t, tt.wantReason, v.Reason)
		})
	}
}

func TestManager_ValidateParentChild_NoSideEffects(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	ctx := context.Background()

	before, err := f.store.Queries().Branches.ListLive(ctx)
	require.NoError(t, err)

	_, err = f.manager.ValidateParentChild(ctx, "c", "a", "")
	require.NoError(t, err)

	after, err := f.store.Queries().Branches.ListLive(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestManager_CheckTreeCycle_MultiParent(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	f.note(t, "y")
	// y is a clone under root and under c, so it sits inside the subtrees
	// of a and b while also hanging off root.
	f.attach(t, storage.RootNoteID, "y", 30)
	f.attach(t, "c", "y", 10)
	ctx := context.Background()

	ok, err := f.manager.CheckTreeCycle(ctx, "y", "a")
	require.NoError(t, err)
	assert.False(t, ok, "every ancestor path of the parent must be checked")

	ok, err = f.manager.CheckTreeCycle(ctx, "y", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	f.note(t, "z")
	ok, err = f.manager.CheckTreeCycle(ctx, "y", "z")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_CheckTreeCycle_Orphan(t *testing.T) {
	f := newFixture(t, Options{})
	f.note(t, "orphan")
	f.note(t, "n")

	ok, err := f.manager.CheckTreeCycle(context.Background(), "orphan", "n")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_ValidateParentChild_BudgetExceeded(t *testing.T) {
	f := newFixture(t, Options{TraversalBudget: 1})
	f.chain(t)
	f.note(t, "x")
	ctx := context.Background()

	v, err := f.manager.ValidateParentChild(ctx, "c", "x", "")
	require.NoError(t, err)
	assert.False(t, v.OK)
	assert.Equal(t, ReasonIncomplete, v.Reason)
	assert.ErrorIs(t, v.Err(), errs.ErrTraversalBudget)
}

func TestManager_ValidateParentChild_CanceledContext(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	f.note(t, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := f.manager.ValidateParentChild(ctx, "c", "x", "")
	if err != nil {
		// The duplicate lookup can fail first on a canceled context.
		assert.True(t, errors.Is(err, context.Canceled))
		return
	}
	assert.Equal(t, ReasonIncomplete, v.Reason)
}

func TestManager_Clone(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	f.note(t, "x")
	f.attach(t, storage.RootNoteID, "x", 20)
	ctx := context.Background()

	branch, err := f.manager.Clone(ctx, "x", "a", "copy")
	require.NoError(t, err)
	assert.Equal(t, "a", branch.ParentNoteID)
	assert.Equal(t, 20, branch.NotePosition, "clone goes after the last child")
	assert.Equal(t, "copy", branch.Prefix)

	parents, err := f.store.Queries().Branches.ParentNoteIDs(ctx, "x")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{storage.RootNoteID, "a"}, parents)

	changes, err := f.store.Queries().Journal.Since(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, changes)
	assert.Equal(t, storage.EntityBranches, changes[len(changes)-1].EntityName)
}

func TestManager_Clone_Rejections(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	f.note(t, "gone")
	require.NoError(t, f.store.Queries().Notes.Save(context.Background(), &storage.Note{NoteID: "gone", IsDeleted: true}))
	ctx := context.Background()

	tests := []struct {
		name     string
		noteID   string
		parentID string
		wantErr  error
	}{
		{"under descendant", "a", "c", errs.ErrInvalidInput},
		{"duplicate", "b", "a", errs.ErrInvalidInput},
		{"deleted parent", "c", "gone", errs.ErrPrecondition},
		{"deleted note", "gone", "a", errs.ErrPrecondition},
		{"missing note", "nope", "a", errs.ErrNotFound},
		{"root", storage.RootNoteID, "a", errs.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.manager.Clone(ctx, tt.noteID, tt.parentID, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var verr *errs.ValidationError
	_, err := f.manager.Clone(ctx, "a", "c", "")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonCycle, verr.Message)
}

func TestManager_MoveBranch(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	f.note(t, "x")
	f.attach(t, storage.RootNoteID, "x", 20)
	ctx := context.Background()

	moved, err := f.manager.MoveBranch(ctx, f.branches["b/c"], "x")
	require.NoError(t, err)
	assert.Equal(t, "x", moved.ParentNoteID)
	assert.NotEqual(t, f.branches["b/c"], moved.BranchID)

	old, err := f.store.Queries().Branches.Get(ctx, f.branches["b/c"])
	require.NoError(t, err)
	assert.True(t, old.IsDeleted)

	_, err = f.manager.MoveBranch(ctx, f.branches["root/a"], "b")
	assert.ErrorIs(t, err, errs.ErrInvalidInput, "moving a under its own child")

	_, err = f.manager.MoveBranch(ctx, f.branches["b/c"], "a")
	assert.ErrorIs(t, err, errs.ErrNotFound, "deleted branch cannot be moved again")
}

func TestManager_Relocate(t *testing.T) {
	ctx := context.Background()

	t.Run("repoints branch found by prefix", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.chain(t)
		f.note(t, "x")
		f.attach(t, storage.RootNoteID, "x", 20)

		require.NoError(t, f.manager.Relocate(ctx, "c", "", "x"))
		parents, err := f.store.Queries().Branches.ParentNoteIDs(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, parents)
	})

	t.Run("detaches with empty parent", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.chain(t)

		require.NoError(t, f.manager.Relocate(ctx, "c", "", ""))
		parents, err := f.store.Queries().Branches.ParentNoteIDs(ctx, "c")
		require.NoError(t, err)
		assert.Empty(t, parents)
	})

	t.Run("rejects cycle", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.chain(t)

		err := f.manager.Relocate(ctx, "a", "", "c")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		parents, _ := f.store.Queries().Branches.ParentNoteIDs(ctx, "a")
		assert.Equal(t, []string{storage.RootNoteID}, parents, "rejected relocate leaves the tree unchanged")
	})

	t.Run("updates prefix of existing branch", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.chain(t)

		require.NoError(t, f.manager.Relocate(ctx, "c", "other", "b"))
		branch, err := f.store.Queries().Branches.Get(ctx, f.branches["b/c"])
		require.NoError(t, err)
		assert.Equal(t, "other", branch.Prefix)
	})

	t.Run("creates missing branch", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.chain(t)
		f.note(t, "x")

		require.NoError(t, f.manager.Relocate(ctx, "x", "p", "a"))
		branch, err := f.store.Queries().Branches.Existing(ctx, "a", "x")
		require.NoError(t, err)
		assert.Equal(t, "p", branch.Prefix)
		assert.Equal(t, 20, branch.NotePosition)
	})

	t.Run("rejects deleted parent", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.chain(t)
		require.NoError(t, f.store.Queries().Notes.Save(ctx, &storage.Note{NoteID: "dead", IsDeleted: true}))

		err := f.manager.Relocate(ctx, "c", "", "dead")
		assert.ErrorIs(t, err, errs.ErrPrecondition)
	})

	t.Run("rejects root", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.chain(t)

		for _, parent := range []string{"", "a"} {
			err := f.manager.Relocate(ctx, storage.RootNoteID, "", parent)
			assert.ErrorIs(t, err, errs.ErrInvalidInput)
			assert.ErrorContains(t, err, ReasonMoveRoot)
		}
		root, err := f.store.Queries().Branches.Get(ctx, storage.RootBranchID)
		require.NoError(t, err)
		assert.False(t, root.IsDeleted)
		assert.Equal(t, storage.NoParentID, root.ParentNoteID)
	})
}

func TestManager_DeleteBranch(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.manager.DeleteBranch(ctx, storage.RootBranchID), errs.ErrInvalidInput)
	assert.ErrorIs(t, f.manager.DeleteBranch(ctx, "missing"), errs.ErrNotFound)

	require.NoError(t, f.manager.DeleteBranch(ctx, f.branches["b/c"]))
	require.NoError(t, f.manager.DeleteBranch(ctx, f.branches["b/c"]), "deleting twice is a no-op")

	children, err := f.store.Queries().Branches.ChildNoteIDs(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestManager_Resort(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	for i, title := range []string{"banana", "Apple", "cherry"} {
		require.NoError(t, f.store.Queries().Notes.Save(ctx, &storage.Note{NoteID: title, Title: title}))
		f.attach(t, storage.RootNoteID, title, i+1)
	}

	placements, err := f.manager.Resort(ctx, storage.RootNoteID, false)
	require.NoError(t, err)
	require.Len(t, placements, 3)
	assert.Equal(t, "Apple", placements[0].NoteID)
	assert.Equal(t, 10, placements[0].Position)
	assert.Equal(t, "banana", placements[1].NoteID)
	assert.Equal(t, 20, placements[1].Position)
	assert.Equal(t, "cherry", placements[2].NoteID)
	assert.Equal(t, 30, placements[2].Position)

	changes, err := f.store.Queries().Journal.Since(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, changes)
	last := changes[len(changes)-1]
	assert.Equal(t, storage.EntityNoteReordering, last.EntityName)
	assert.Equal(t, storage.RootNoteID, last.EntityID)

	_, err = f.manager.Resort(ctx, "missing", false)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestManager_Children(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	f.note(t, "x")
	f.attach(t, "a", "x", 5)
	ctx := context.Background()

	rel := &storage.Attribute{
		AttributeID: "rel1", NoteID: "b", Type: storage.AttributeTypeRelation,
		Name: "seeAlso", Value: storage.RawValue("x"), Position: 1,
	}
	require.NoError(t, f.store.Queries().Attributes.Save(ctx, rel))

	children, err := f.manager.Children(ctx, "a")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "x", children[0].NoteID)
	assert.Empty(t, children[0].Relations)
	assert.Equal(t, "b", children[1].NoteID)
	assert.Equal(t, []Relation{{AttributeID: "rel1", Name: "seeAlso", TargetNoteID: "x"}}, children[1].Relations)

	_, err = f.manager.Children(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestManager_Audit(t *testing.T) {
	f := newFixture(t, Options{})
	f.chain(t)
	ctx := context.Background()

	ids, err := f.manager.Audit(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Corrupt the graph behind the manager's back.
	f.attach(t, "c", "a", 10)
	ids, err = f.manager.Audit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

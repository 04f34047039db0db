package tree

import (
	"context"
	"fmt"
	"slices"

	"notetree/internal/errs"
	"notetree/internal/storage"
)

// walker counts the notes visited by one cycle check against a budget and
// stops when the budget runs out or ctx is done.
type walker struct {
	q       *storage.Queries
	budget  int
	visited int
}

func (w *walker) step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.visited++
	if w.visited > w.budget {
		return fmt.Errorf("visited %d notes: %w", w.visited, errs.ErrTraversalBudget)
	}
	return nil
}

// subtree returns noteID and every note below it over live branches.
func (w *walker) subtree(ctx context.Context, noteID string) (map[string]struct{}, error) {
	seen := map[string]struct{}{noteID: {}}
	stack := []string{noteID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := w.step(ctx); err != nil {
			return nil, err
		}

		children, err := w.q.Branches.ChildNoteIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			stack = append(stack, c)
		}
	}
	return seen, nil
}

// reachesSubtree walks every ancestor path upward from parentID and reports
// whether one of them enters the subtree. A path ends at the root note or at
// a note without parents.
func (w *walker) reachesSubtree(ctx context.Context, parentID string, subtree map[string]struct{}) (bool, error) {
	seen := map[string]struct{}{}
	stack := []string{parentID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == storage.RootNoteID {
			continue
		}
		if _, ok := subtree[id]; ok {
			return true, nil
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if err := w.step(ctx); err != nil {
			return false, err
		}

		parents, err := w.q.Branches.ParentNoteIDs(ctx, id)
		if err != nil {
			return false, err
		}
		stack = append(stack, parents...)
	}
	return false, nil
}

// CheckTreeCycle reports whether placing childID under parentID keeps the
// tree acyclic. It returns an error wrapping errs.ErrTraversalBudget or the
// context error when the check could not complete.
func (m *Manager) CheckTreeCycle(ctx context.Context, parentID, childID string) (bool, error) {
	return m.checkTreeCycle(ctx, m.store.Queries(), parentID, childID)
}

func (m *Manager) checkTreeCycle(ctx context.Context, q *storage.Queries, parentID, childID string) (bool, error) {
	if parentID == storage.RootNoteID {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	w := &walker{q: q, budget: m.budget}
	defer func() {
		cycleCheckVisited.Observe(float64(w.visited))
	}()

	subtree, err := w.subtree(ctx, childID)
	if err != nil {
		return false, err
	}
	cyclic, err := w.reachesSubtree(ctx, parentID, subtree)
	if err != nil {
		return false, err
	}
	return !cyclic, nil
}

// Audit returns the notes reachable from the root that sit on a cycle of
// live branches. A consistent tree yields an empty slice.
func (m *Manager) Audit(ctx context.Context) ([]string, error) {
	branches, err := m.store.Queries().Branches.ListLive(ctx)
	if err != nil {
		return nil, err
	}
	children := make(map[string][]string)
	for _, b := range branches {
		children[b.ParentNoteID] = append(children[b.ParentNoteID], b.NoteID)
	}

	const (
		white = iota
		grey
		black
	)
	type frame struct {
		id   string
		next int
	}

	color := map[string]int{}
	onCycle := map[string]struct{}{}
	stack := []frame{{id: storage.RootNoteID}}
	color[storage.RootNoteID] = grey
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		top := &stack[len(stack)-1]
		kids := children[top.id]
		if top.next == len(kids) {
			color[top.id] = black
			stack = stack[:len(stack)-1]
			continue
		}
		child := kids[top.next]
		top.next++

		switch color[child] {
		case white:
			color[child] = grey
			stack = append(stack, frame{id: child})
		case grey:
			// Everything on the stack from child upward is part of the loop.
			for i := len(stack) - 1; i >= 0; i-- {
				onCycle[stack[i].id] = struct{}{}
				if stack[i].id == child {
					break
				}
			}
		}
	}

	ids := make([]string, 0, len(onCycle))
	for id := range onCycle {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const branchColumns = "branch_id, note_id, parent_note_id, prefix, note_position, is_expanded, is_deleted, utc_date_modified"

// BranchRepo provides methods for branch operations.
type BranchRepo struct {
	db DBTX
}

// NewBranchRepo creates a new BranchRepo.
func NewBranchRepo(db DBTX) *BranchRepo {
	return &BranchRepo{db: db}
}

// Get gets a branch by ID. Returns nil and ErrNotFound if not found.
func (r *BranchRepo) Get(ctx context.Context, branchID string) (*Branch, error) {
	return r.queryOne(ctx, "SELECT "+branchColumns+" FROM branches WHERE branch_id = ?", branchID)
}

// Existing returns the live branch connecting parentNoteID to noteID.
// Returns nil and ErrNotFound if there is none.
func (r *BranchRepo) Existing(ctx context.Context, parentNoteID, noteID string) (*Branch, error) {
	return r.queryOne(ctx,
		"SELECT "+branchColumns+" FROM branches WHERE note_id = ? AND parent_note_id = ? AND is_deleted = 0 ORDER BY branch_id LIMIT 1",
		noteID, parentNoteID,
	)
}

// FindByNoteAndPrefix returns a live branch of noteID carrying prefix.
// Returns nil and ErrNotFound if there is none.
func (r *BranchRepo) FindByNoteAndPrefix(ctx context.Context, noteID, prefix string) (*Branch, error) {
	return r.queryOne(ctx,
		"SELECT "+branchColumns+" FROM branches WHERE note_id = ? AND prefix = ? AND is_deleted = 0 ORDER BY branch_id LIMIT 1",
		noteID, prefix,
	)
}

// Save inserts a new branch or updates an existing one. A missing ID is
// generated.
func (r *BranchRepo) Save(ctx context.Context, branch *Branch) error {
	if branch.BranchID == "" {
		branch.BranchID = uuid.New().String()
	}
	branch.DateModified = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO branches (`+branchColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (branch_id) DO UPDATE SET
		 note_id = excluded.note_id, parent_note_id = excluded.parent_note_id,
		 prefix = excluded.prefix, note_position = excluded.note_position,
		 is_expanded = excluded.is_expanded, is_deleted = excluded.is_deleted,
		 utc_date_modified = excluded.utc_date_modified`,
		branch.BranchID, branch.NoteID, branch.ParentNoteID, branch.Prefix, branch.NotePosition,
		boolToInt(branch.IsExpanded), boolToInt(branch.IsDeleted), formatTime(branch.DateModified),
	)
	if err != nil {
		return fmt.Errorf("failed to save branch: %w", err)
	}
	return nil
}

// ChildNoteIDs returns the note IDs of live branches under parentNoteID.
func (r *BranchRepo) ChildNoteIDs(ctx context.Context, parentNoteID string) ([]string, error) {
	return r.queryColumn(ctx,
		"SELECT note_id FROM branches WHERE parent_note_id = ? AND is_deleted = 0 ORDER BY note_position, branch_id",
		parentNoteID,
	)
}

// ParentNoteIDs returns the distinct parents of noteID over live branches.
func (r *BranchRepo) ParentNoteIDs(ctx context.Context, noteID string) ([]string, error) {
	return r.queryColumn(ctx,
		"SELECT DISTINCT parent_note_id FROM branches WHERE note_id = ? AND is_deleted = 0 ORDER BY parent_note_id",
		noteID,
	)
}

// Children returns the live branches under parentNoteID ordered by position.
func (r *BranchRepo) Children(ctx context.Context, parentNoteID string) ([]*Branch, error) {
	return r.queryMany(ctx,
		"SELECT "+branchColumns+" FROM branches WHERE parent_note_id = ? AND is_deleted = 0 ORDER BY note_position, branch_id",
		parentNoteID,
	)
}

// NoteBranches returns the live branches placing noteID anywhere in the tree.
func (r *BranchRepo) NoteBranches(ctx context.Context, noteID string) ([]*Branch, error) {
	return r.queryMany(ctx,
		"SELECT "+branchColumns+" FROM branches WHERE note_id = ? AND is_deleted = 0 ORDER BY branch_id",
		noteID,
	)
}

// ListLive returns every live branch.
func (r *BranchRepo) ListLive(ctx context.Context) ([]*Branch, error) {
	return r.queryMany(ctx,
		"SELECT "+branchColumns+" FROM branches WHERE is_deleted = 0 ORDER BY parent_note_id, note_position, branch_id",
	)
}

// Siblings returns the live children of parentNoteID joined with their notes,
// each flagged with whether the note has live children itself. Rows keep the
// current position order.
func (r *BranchRepo) Siblings(ctx context.Context, parentNoteID string) ([]Sibling, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.branch_id, b.note_position,
		        n.note_id, n.title, n.type, n.mime, n.is_protected, n.is_deleted, n.utc_date_created, n.utc_date_modified,
		        EXISTS (SELECT 1 FROM branches c WHERE c.parent_note_id = n.note_id AND c.is_deleted = 0) AS has_children
		 FROM branches b
		 JOIN notes n ON n.note_id = b.note_id
		 WHERE b.parent_note_id = ? AND b.is_deleted = 0
		 ORDER BY b.note_position, b.branch_id`,
		parentNoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query siblings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var siblings []Sibling
	for rows.Next() {
		var s Sibling
		var noteType, created, modified string
		var isProtected, isDeleted, hasChildren int
		if err := rows.Scan(&s.BranchID, &s.NotePosition,
			&s.Note.NoteID, &s.Note.Title, &noteType, &s.Note.Mime, &isProtected, &isDeleted, &created, &modified,
			&hasChildren); err != nil {
			return nil, fmt.Errorf("failed to scan sibling: %w", err)
		}
		s.Note.Type = NoteType(noteType)
		s.Note.IsProtected = isProtected != 0
		s.Note.IsDeleted = isDeleted != 0
		s.Note.IsContentAvailable = true
		var err error
		if s.Note.DateCreated, err = parseTime(created); err != nil {
			return nil, err
		}
		if s.Note.DateModified, err = parseTime(modified); err != nil {
			return nil, err
		}
		s.HasChildren = hasChildren != 0
		siblings = append(siblings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate siblings: %w", err)
	}
	return siblings, nil
}

// MaxPosition returns the highest position among live children of
// parentNoteID, or 0 when it has none.
func (r *BranchRepo) MaxPosition(ctx context.Context, parentNoteID string) (int, error) {
	var pos sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(note_position) FROM branches WHERE parent_note_id = ? AND is_deleted = 0",
		parentNoteID,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("failed to query max branch position: %w", err)
	}
	return int(pos.Int64), nil
}

// UpdatePosition rewrites the position of one branch.
func (r *BranchRepo) UpdatePosition(ctx context.Context, branchID string, position int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE branches SET note_position = ?, utc_date_modified = ? WHERE branch_id = ?",
		position, formatTime(time.Now()), branchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update branch position: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BranchRepo) queryOne(ctx context.Context, query string, args ...any) (*Branch, error) {
	branch, err := scanBranch(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query branch: %w", err)
	}
	return branch, nil
}

func (r *BranchRepo) queryMany(ctx context.Context, query string, args ...any) ([]*Branch, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var branches []*Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, branch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}
	return branches, nil
}

func (r *BranchRepo) queryColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query branch column: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan branch column: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate branch column: %w", err)
	}
	return ids, nil
}

func scanBranch(row rowScanner) (*Branch, error) {
	var b Branch
	var isExpanded, isDeleted int
	var modified string
	if err := row.Scan(&b.BranchID, &b.NoteID, &b.ParentNoteID, &b.Prefix, &b.NotePosition,
		&isExpanded, &isDeleted, &modified); err != nil {
		return nil, err
	}
	b.IsExpanded = isExpanded != 0
	b.IsDeleted = isDeleted != 0
	var err error
	if b.DateModified, err = parseTime(modified); err != nil {
		return nil, err
	}
	return &b, nil
}

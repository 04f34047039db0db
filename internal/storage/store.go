package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// inChunk is the number of ids bound per IN (...) clause.
const inChunk = 500

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run inside
// or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries bundles the repositories bound to one DBTX.
type Queries struct {
	Notes      *NoteRepo
	Branches   *BranchRepo
	Attributes *AttributeRepo
	Revisions  *RevisionRepo
	Contents   *ContentRepo
	Journal    *Journal
}

// NewQueries binds every repository to db.
func NewQueries(db DBTX) *Queries {
	return &Queries{
		Notes:      NewNoteRepo(db),
		Branches:   NewBranchRepo(db),
		Attributes: NewAttributeRepo(db),
		Revisions:  NewRevisionRepo(db),
		Contents:   NewContentRepo(db),
		Journal:    NewJournal(db),
	}
}

// Store is the entity store: repositories over the connection pool plus a
// transactional runner.
type Store struct {
	db *sql.DB
	q  *Queries
}

// NewStore creates a Store on top of an opened and migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: NewQueries(db)}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Queries returns repositories bound to the connection pool.
func (s *Store) Queries() *Queries {
	return s.q
}

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back on error or panic, so
// either every write made through q is visible or none is.
//
// fn must only use q; the pool may be blocked by the open write transaction.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewQueries(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

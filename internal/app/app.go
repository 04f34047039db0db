// Package app wires the engines on top of an opened database.
package app

import (
	"database/sql"
	"fmt"

	"notetree/internal/attributes"
	"notetree/internal/config"
	"notetree/internal/ordering"
	"notetree/internal/revisions"
	"notetree/internal/service"
	"notetree/internal/session"
	"notetree/internal/storage"
	"notetree/internal/tree"
)

// App holds the engines shared by the server and the admin CLI.
type App struct {
	DB         *sql.DB
	Store      *storage.Store
	Session    *session.Service
	Tree       *tree.Manager
	Attributes service.AttributeService
	Revisions  *revisions.Manager
	Archive    *attributes.ArchiveIndex
	Notes      service.NoteService
}

// Open opens and migrates the database at cfg.DBPath and builds the engines.
func Open(cfg *config.Config) (*App, error) {
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return New(db, cfg), nil
}

// New builds the engines on top of an opened and migrated database.
func New(db *sql.DB, cfg *config.Config) *App {
	store := storage.NewStore(db)
	sess := session.NewService(cfg.ProtectedSession)
	resolver := attributes.NewResolver(store)
	archive := attributes.NewArchiveIndex(store)

	return &App{
		DB:      db,
		Store:   store,
		Session: sess,
		Tree: tree.NewManager(store, ordering.NewEngine(sess), sess, tree.Options{
			TraversalBudget:   cfg.TraversalBudget,
			CycleCheckTimeout: cfg.CycleCheckTimeout,
		}),
		Attributes: service.NewAttributeService(attributes.NewService(store), resolver),
		Revisions:  revisions.NewManager(store, sess, cfg.FilePreviewLimit),
		Archive:    archive,
		Notes:      service.NewNoteService(store, resolver, sess, archive, cfg.FilePreviewLimit),
	}
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

package attributes

import (
	"context"
	"sync"
	"time"

	"notetree/internal/contextutil"
	"notetree/internal/storage"
)

// ArchiveIndex is a read-only view of which notes carry the archived label.
// It is rebuilt from storage by Refresh and is safe for concurrent use.
type ArchiveIndex struct {
	store *storage.Store

	mu       sync.RWMutex
	archived map[string]struct{}
	loadedAt time.Time
}

// NewArchiveIndex creates an empty index. Call Refresh to load it.
func NewArchiveIndex(store *storage.Store) *ArchiveIndex {
	return &ArchiveIndex{store: store, archived: map[string]struct{}{}}
}

// Refresh rebuilds the index from the live archived labels.
func (a *ArchiveIndex) Refresh(ctx context.Context) error {
	ids, err := a.store.Queries().Attributes.NotesWithLabel(ctx, LabelArchived)
	if err != nil {
		return err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	a.mu.Lock()
	a.archived = set
	a.loadedAt = time.Now()
	a.mu.Unlock()
	return nil
}

// IsArchived reports whether noteID was archived at the last refresh.
func (a *ArchiveIndex) IsArchived(noteID string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.archived[noteID]
	return ok
}

// LoadedAt returns when the index was last rebuilt.
func (a *ArchiveIndex) LoadedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loadedAt
}

// Run refreshes the index every interval until ctx is done. Failed refreshes
// are logged and keep the previous contents.
func (a *ArchiveIndex) Run(ctx context.Context, interval time.Duration) error {
	logger := contextutil.LoggerFromContext(ctx)
	if err := a.Refresh(ctx); err != nil {
		logger.WarnContext(ctx, "failed to load archive index", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.Refresh(ctx); err != nil {
				logger.WarnContext(ctx, "failed to refresh archive index", "error", err)
			}
		}
	}
}

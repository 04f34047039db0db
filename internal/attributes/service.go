// Package attributes saves note attributes and derives the display metadata
// that notes inherit from their own labels and their templates.
package attributes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"notetree/internal/contextutil"
	"notetree/internal/errs"
	"notetree/internal/storage"
)

var attributesSaved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "notetree",
	Subsystem: "attributes",
	Name:      "saved_total",
	Help:      "Attributes written, by attribute type.",
}, []string{"type"})

// Service writes attributes, filling in the defaults every stored attribute
// must carry.
type Service struct {
	store *storage.Store
	now   func() time.Time
}

// NewService creates a Service. Its clock is truncated to the millisecond
// precision timestamps are stored with.
func NewService(store *storage.Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Save validates attr, applies defaults and persists it. attr is updated in
// place with the values that were stored.
//
// A relation must name an existing target note. Other attribute types get an
// empty value when none is given. A zero position places the attribute after
// the note's last one. Definition values given as raw strings are parsed into
// a DefinitionValue when possible. The modification time moves only when the
// stored form changes. Saving over an existing attribute keeps its position,
// creation time and deletion mark unless attr sets them.
func (s *Service) Save(ctx context.Context, attr *storage.Attribute) error {
	if !attr.Type.Valid() {
		return &errs.ValidationError{Field: "type", Message: fmt.Sprintf("unknown attribute type %q", attr.Type)}
	}
	if attr.NoteID == "" {
		return &errs.ValidationError{Field: "noteId", Message: "cannot be empty"}
	}
	if attr.Name == "" {
		return &errs.ValidationError{Field: "name", Message: "cannot be empty"}
	}

	return s.store.InTx(ctx, func(q *storage.Queries) error {
		return s.save(ctx, q, attr)
	})
}

func (s *Service) save(ctx context.Context, q *storage.Queries, attr *storage.Attribute) error {
	logger := contextutil.LoggerFromContext(ctx)

	if attr.Type == storage.AttributeTypeRelation {
		target := attr.ValueString()
		if target == "" {
			return &errs.ValidationError{Field: "value", Message: "missing relation target"}
		}
		if _, err := q.Notes.Get(ctx, target); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return &errs.ValidationError{Field: "value", Message: fmt.Sprintf("relation target %s does not exist", target)}
			}
			return errs.WrapError(err, "failed to load relation target")
		}
	} else if attr.Value == nil {
		attr.Value = storage.RawValue("")
	}

	if _, err := q.Notes.Get(ctx, attr.NoteID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.NotFound("note", attr.NoteID)
		}
		return errs.WrapError(err, "failed to load owning note")
	}

	if attr.AttributeID == "" {
		attr.AttributeID = storage.NewAttributeID()
	} else if err := mergePersisted(ctx, q, attr); err != nil {
		return err
	}
	if attr.Position == 0 {
		last, err := q.Attributes.MaxPosition(ctx, attr.NoteID)
		if err != nil {
			return err
		}
		attr.Position = last + 1
	}

	now := s.now()
	if attr.UtcDateCreated.IsZero() {
		attr.UtcDateCreated = now
	}

	if raw, ok := attr.Value.(storage.RawValue); ok && attr.Type.IsDefinition() {
		v, err := storage.ParseAttributeValue(attr.Type, string(raw))
		if err != nil {
			logger.WarnContext(ctx, "keeping definition value as raw string",
				"attribute_id", attr.AttributeID, "name", attr.Name, "error", err)
		}
		attr.Value = v
	}

	persisted, err := q.Attributes.PersistedHash(ctx, attr.AttributeID)
	if err != nil {
		return err
	}
	change := storage.ChangeUpdate
	if persisted == "" {
		change = storage.ChangeCreate
	}
	if persisted != attr.Hash() || attr.UtcDateModified.IsZero() {
		attr.UtcDateModified = now
	}

	if err := q.Attributes.Save(ctx, attr); err != nil {
		return err
	}
	q.Journal.RecordChange(ctx, storage.EntityAttributes, attr.AttributeID, change)
	attributesSaved.WithLabelValues(string(attr.Type)).Inc()

	logger.DebugContext(ctx, "attribute saved",
		"attribute_id", attr.AttributeID, "note_id", attr.NoteID, "type", attr.Type, "name", attr.Name)
	return nil
}

// mergePersisted carries the stored position, timestamps and deletion mark
// into an update that left them unset. An attribute cannot change owner.
func mergePersisted(ctx context.Context, q *storage.Queries, attr *storage.Attribute) error {
	stored, err := q.Attributes.Get(ctx, attr.AttributeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errs.WrapError(err, "failed to load attribute")
	}
	if stored.NoteID != attr.NoteID {
		return &errs.ValidationError{Field: "attributeId", Message: fmt.Sprintf("attribute belongs to note %s", stored.NoteID)}
	}
	if attr.Position == 0 {
		attr.Position = stored.Position
	}
	if attr.UtcDateCreated.IsZero() {
		attr.UtcDateCreated = stored.UtcDateCreated
	}
	if attr.UtcDateModified.IsZero() {
		attr.UtcDateModified = stored.UtcDateModified
	}
	attr.IsDeleted = attr.IsDeleted || stored.IsDeleted
	return nil
}

// Delete marks an attribute deleted.
func (s *Service) Delete(ctx context.Context, attributeID string) error {
	return s.store.InTx(ctx, func(q *storage.Queries) error {
		attr, err := q.Attributes.Get(ctx, attributeID)
		if errors.Is(err, storage.ErrNotFound) {
			return errs.NotFound("attribute", attributeID)
		}
		if err != nil {
			return errs.WrapError(err, "failed to load attribute")
		}
		if attr.IsDeleted {
			return nil
		}
		attr.IsDeleted = true
		return s.save(ctx, q, attr)
	})
}

// Owned returns the live attributes of noteID in position order.
func (s *Service) Owned(ctx context.Context, noteID string) ([]*storage.Attribute, error) {
	q := s.store.Queries()
	if _, err := q.Notes.Get(ctx, noteID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errs.NotFound("note", noteID)
		}
		return nil, errs.WrapError(err, "failed to load note")
	}
	return q.Attributes.ListOwned(ctx, noteID)
}

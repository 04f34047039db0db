package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const attributeColumns = "attribute_id, note_id, type, name, value, position, is_inheritable, is_deleted, utc_date_created, utc_date_modified"

// AttributeRepo provides methods for attribute operations.
type AttributeRepo struct {
	db DBTX
}

// NewAttributeRepo creates a new AttributeRepo.
func NewAttributeRepo(db DBTX) *AttributeRepo {
	return &AttributeRepo{db: db}
}

// NewAttributeID returns a fresh attribute identifier.
func NewAttributeID() string {
	return uuid.New().String()
}

// Get gets an attribute by ID. Returns nil and ErrNotFound if not found.
func (r *AttributeRepo) Get(ctx context.Context, attributeID string) (*Attribute, error) {
	attr, err := scanAttribute(ctx, r.db.QueryRowContext(ctx,
		"SELECT "+attributeColumns+" FROM attributes WHERE attribute_id = ?", attributeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attribute: %w", err)
	}
	return attr, nil
}

// PersistedHash returns the hash stored with the attribute's last save, or ""
// when the attribute has never been saved.
func (r *AttributeRepo) PersistedHash(ctx context.Context, attributeID string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		"SELECT hash FROM attributes WHERE attribute_id = ?", attributeID,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query attribute hash: %w", err)
	}
	return hash, nil
}

// Save inserts or updates the attribute exactly as given, along with its
// current hash. Defaulting is the caller's job.
func (r *AttributeRepo) Save(ctx context.Context, attr *Attribute) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attributes (`+attributeColumns+`, hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (attribute_id) DO UPDATE SET
		 note_id = excluded.note_id, type = excluded.type, name = excluded.name,
		 value = excluded.value, position = excluded.position,
		 is_inheritable = excluded.is_inheritable, is_deleted = excluded.is_deleted,
		 utc_date_created = excluded.utc_date_created, utc_date_modified = excluded.utc_date_modified,
		 hash = excluded.hash`,
		attr.AttributeID, attr.NoteID, string(attr.Type), attr.Name, attr.ValueString(), attr.Position,
		boolToInt(attr.IsInheritable), boolToInt(attr.IsDeleted),
		formatTime(attr.UtcDateCreated), formatTime(attr.UtcDateModified), attr.Hash(),
	)
	if err != nil {
		return fmt.Errorf("failed to save attribute: %w", err)
	}
	return nil
}

// MaxPosition returns the highest attribute position for noteID, or 0 when the
// note owns no attributes. Deleted attributes count so positions stay unique.
func (r *AttributeRepo) MaxPosition(ctx context.Context, noteID string) (int, error) {
	var pos sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(position) FROM attributes WHERE note_id = ?", noteID,
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("failed to query max attribute position: %w", err)
	}
	return int(pos.Int64), nil
}

// ListOwned returns the live attributes of noteID in position order.
func (r *AttributeRepo) ListOwned(ctx context.Context, noteID string) ([]*Attribute, error) {
	return r.queryMany(ctx,
		"SELECT "+attributeColumns+" FROM attributes WHERE note_id = ? AND is_deleted = 0 ORDER BY position, attribute_id",
		noteID,
	)
}

// ListByType returns live attributes of the given type owned by any of noteIDs.
func (r *AttributeRepo) ListByType(ctx context.Context, noteIDs []string, t AttributeType) ([]*Attribute, error) {
	var attrs []*Attribute
	for _, chunk := range chunkIDs(noteIDs, inChunk) {
		args := append([]any{string(t)}, stringArgs(chunk)...)
		batch, err := r.queryMany(ctx,
			"SELECT "+attributeColumns+" FROM attributes WHERE type = ? AND is_deleted = 0 AND note_id IN ("+
				placeholders(len(chunk))+") ORDER BY note_id, position, attribute_id",
			args...,
		)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, batch...)
	}
	return attrs, nil
}

// TemplateLabels returns live labels named in names that belong to notes
// referenced through a live relation named relationName from any of noteIDs.
// Each row carries the referencing note's ID.
func (r *AttributeRepo) TemplateLabels(ctx context.Context, noteIDs []string, relationName string, names []string) ([]LabelRow, error) {
	var labels []LabelRow
	for _, chunk := range chunkIDs(noteIDs, inChunk) {
		args := []any{string(AttributeTypeRelation), relationName}
		args = append(args, stringArgs(chunk)...)
		args = append(args, string(AttributeTypeLabel))
		args = append(args, stringArgs(names)...)

		batch, err := r.queryLabels(ctx,
			`SELECT templ.note_id, attr.name, attr.value
			 FROM attributes templ
			 JOIN attributes attr ON attr.note_id = templ.value
			 WHERE templ.is_deleted = 0
			   AND templ.type = ?
			   AND templ.name = ?
			   AND templ.value <> templ.note_id
			   AND templ.note_id IN (`+placeholders(len(chunk))+`)
			   AND attr.is_deleted = 0
			   AND attr.type = ?
			   AND attr.name IN (`+placeholders(len(names))+`)
			 ORDER BY templ.note_id, templ.position, attr.position`,
			args...,
		)
		if err != nil {
			return nil, err
		}
		labels = append(labels, batch...)
	}
	return labels, nil
}

// OwnLabels returns live labels named in names owned by any of noteIDs.
func (r *AttributeRepo) OwnLabels(ctx context.Context, noteIDs []string, names []string) ([]LabelRow, error) {
	var labels []LabelRow
	for _, chunk := range chunkIDs(noteIDs, inChunk) {
		args := []any{string(AttributeTypeLabel)}
		args = append(args, stringArgs(names)...)
		args = append(args, stringArgs(chunk)...)

		batch, err := r.queryLabels(ctx,
			`SELECT note_id, name, value
			 FROM attributes
			 WHERE is_deleted = 0
			   AND type = ?
			   AND name IN (`+placeholders(len(names))+`)
			   AND note_id IN (`+placeholders(len(chunk))+`)
			 ORDER BY note_id, position`,
			args...,
		)
		if err != nil {
			return nil, err
		}
		labels = append(labels, batch...)
	}
	return labels, nil
}

// NotesWithLabel returns the IDs of live notes owning a live label called name.
func (r *AttributeRepo) NotesWithLabel(ctx context.Context, name string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT a.note_id
		 FROM attributes a
		 JOIN notes n ON n.note_id = a.note_id
		 WHERE a.type = ? AND a.name = ? AND a.is_deleted = 0 AND n.is_deleted = 0`,
		string(AttributeTypeLabel), name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query labelled notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan labelled note: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AttributeRepo) queryLabels(ctx context.Context, query string, args ...any) ([]LabelRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var labels []LabelRow
	for rows.Next() {
		var l LabelRow
		if err := rows.Scan(&l.NoteID, &l.Name, &l.Value); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate labels: %w", err)
	}
	return labels, nil
}

func (r *AttributeRepo) queryMany(ctx context.Context, query string, args ...any) ([]*Attribute, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attributes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var attrs []*Attribute
	for rows.Next() {
		attr, err := scanAttribute(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attribute: %w", err)
		}
		attrs = append(attrs, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attributes: %w", err)
	}
	return attrs, nil
}

// scanAttribute decodes one row. A definition whose value does not parse is
// kept as a RawValue and logged.
func scanAttribute(ctx context.Context, row rowScanner) (*Attribute, error) {
	var a Attribute
	var attrType, value, created, modified string
	var isInheritable, isDeleted int
	if err := row.Scan(&a.AttributeID, &a.NoteID, &attrType, &a.Name, &value, &a.Position,
		&isInheritable, &isDeleted, &created, &modified); err != nil {
		return nil, err
	}
	a.Type = AttributeType(attrType)
	a.IsInheritable = isInheritable != 0
	a.IsDeleted = isDeleted != 0

	v, err := ParseAttributeValue(a.Type, value)
	if err != nil {
		slog.WarnContext(ctx, "keeping definition value as raw string",
			"attribute_id", a.AttributeID, "error", err)
	}
	a.Value = v

	if a.UtcDateCreated, err = parseTime(created); err != nil {
		return nil, err
	}
	if a.UtcDateModified, err = parseTime(modified); err != nil {
		return nil, err
	}
	return &a, nil
}

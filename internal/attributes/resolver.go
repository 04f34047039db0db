package attributes

import (
	"context"

	"notetree/internal/contextutil"
	"notetree/internal/storage"
)

// Label and relation names with display meaning.
const (
	LabelCSSClass    = "cssClass"
	LabelIconClass   = "iconClass"
	LabelArchived    = "archived"
	RelationTemplate = "template"
)

var displayLabels = []string{LabelCSSClass, LabelIconClass}

// DisplayMetadata is what a note inherits for display.
type DisplayMetadata struct {
	CSSClass  string `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	IconClass string `json:"iconClass,omitempty" yaml:"iconClass,omitempty"`
}

// Resolver derives display metadata and relation maps for batches of notes.
type Resolver struct {
	store *storage.Store
}

// NewResolver creates a Resolver.
func NewResolver(store *storage.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveDisplayMetadata computes display metadata for noteIDs. Labels of the
// notes' direct templates apply first and the notes' own labels after them:
// css classes accumulate space-separated while the last icon class wins, so
// a note's own icon overrides its template's. Notes without display labels
// are absent from the result.
func (r *Resolver) ResolveDisplayMetadata(ctx context.Context, noteIDs []string) (map[string]DisplayMetadata, error) {
	result := make(map[string]DisplayMetadata)
	if len(noteIDs) == 0 {
		return result, nil
	}
	q := r.store.Queries()

	templateLabels, err := q.Attributes.TemplateLabels(ctx, noteIDs, RelationTemplate, displayLabels)
	if err != nil {
		return nil, err
	}
	ownLabels, err := q.Attributes.OwnLabels(ctx, noteIDs, displayLabels)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]struct{}, len(noteIDs))
	for _, id := range noteIDs {
		requested[id] = struct{}{}
	}
	applyLabels(ctx, result, requested, append(templateLabels, ownLabels...))
	return result, nil
}

func applyLabels(ctx context.Context, result map[string]DisplayMetadata, requested map[string]struct{}, labels []storage.LabelRow) {
	for _, l := range labels {
		if _, ok := requested[l.NoteID]; !ok {
			continue
		}
		meta := result[l.NoteID]
		switch l.Name {
		case LabelCSSClass:
			if meta.CSSClass == "" {
				meta.CSSClass = l.Value
			} else {
				meta.CSSClass += " " + l.Value
			}
		case LabelIconClass:
			meta.IconClass = l.Value
		default:
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "unrecognized label name",
				"note_id", l.NoteID, "name", l.Name)
			continue
		}
		result[l.NoteID] = meta
	}
}

// MapRelation is a relation between two notes of a relation map.
type MapRelation struct {
	AttributeID  string `json:"attributeId" yaml:"attributeId"`
	SourceNoteID string `json:"sourceNoteId" yaml:"sourceNoteId"`
	TargetNoteID string `json:"targetNoteId" yaml:"targetNoteId"`
	Name         string `json:"name" yaml:"name"`
}

// RelationMap describes the relations among a set of notes.
type RelationMap struct {
	NoteTitles       map[string]string `json:"noteTitles" yaml:"noteTitles"`
	Relations        []MapRelation     `json:"relations" yaml:"relations"`
	InverseRelations map[string]string `json:"inverseRelations" yaml:"inverseRelations"`
}

// RelationMap returns the titles of the live notes among noteIDs, the
// relations between them and the inverse relation names declared by their
// relation definitions.
func (r *Resolver) RelationMap(ctx context.Context, noteIDs []string) (*RelationMap, error) {
	resp := &RelationMap{
		NoteTitles:       map[string]string{},
		Relations:        []MapRelation{},
		InverseRelations: map[string]string{},
	}
	if len(noteIDs) == 0 {
		return resp, nil
	}
	q := r.store.Queries()

	notes, err := q.Notes.GetMany(ctx, noteIDs)
	if err != nil {
		return nil, err
	}
	var live []string
	for _, n := range notes {
		if n.IsDeleted {
			continue
		}
		resp.NoteTitles[n.NoteID] = n.Title
		live = append(live, n.NoteID)
	}

	relations, err := q.Attributes.ListByType(ctx, live, storage.AttributeTypeRelation)
	if err != nil {
		return nil, err
	}
	inMap := make(map[string]struct{}, len(noteIDs))
	for _, id := range noteIDs {
		inMap[id] = struct{}{}
	}
	for _, rel := range relations {
		if _, ok := inMap[rel.ValueString()]; !ok {
			continue
		}
		resp.Relations = append(resp.Relations, MapRelation{
			AttributeID:  rel.AttributeID,
			SourceNoteID: rel.NoteID,
			TargetNoteID: rel.ValueString(),
			Name:         rel.Name,
		})
	}

	inverse, err := r.inverseRelations(ctx, q, live)
	if err != nil {
		return nil, err
	}
	resp.InverseRelations = inverse
	return resp, nil
}

// InverseRelations maps relation names to the inverse relation names
// declared by relation definitions owned by noteIDs.
func (r *Resolver) InverseRelations(ctx context.Context, noteIDs []string) (map[string]string, error) {
	return r.inverseRelations(ctx, r.store.Queries(), noteIDs)
}

func (r *Resolver) inverseRelations(ctx context.Context, q *storage.Queries, noteIDs []string) (map[string]string, error) {
	inverse := map[string]string{}
	defs, err := q.Attributes.ListByType(ctx, noteIDs, storage.AttributeTypeRelationDefinition)
	if err != nil {
		return nil, err
	}
	for _, d := range defs {
		def, ok := d.Value.(storage.DefinitionValue)
		if !ok || def.InverseRelation == "" {
			continue
		}
		inverse[d.Name] = def.InverseRelation
	}
	return inverse, nil
}

package storage

import (
	"context"
	"testing"
	"time"
)

func newAttr(noteID string, t AttributeType, name, value string, pos int) *Attribute {
	return &Attribute{
		AttributeID:     NewAttributeID(),
		NoteID:          noteID,
		Type:            t,
		Name:            name,
		Value:           RawValue(value),
		Position:        pos,
		UtcDateCreated:  time.Now().UTC(),
		UtcDateModified: time.Now().UTC(),
	}
}

func TestAttributeRepo_SaveGetAndHash(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedNotes(t, NewNoteRepo(db), "n1")
	repo := NewAttributeRepo(db)

	attr := newAttr("n1", AttributeTypeLabel, "color", "red", 1)

	hash, err := repo.PersistedHash(ctx, attr.AttributeID)
	if err != nil || hash != "" {
		t.Fatalf("PersistedHash() before save = %q, %v; want empty", hash, err)
	}

	if err := repo.Save(ctx, attr); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	hash, err = repo.PersistedHash(ctx, attr.AttributeID)
	if err != nil {
		t.Fatalf("PersistedHash() error = %v", err)
	}
	if hash != attr.Hash() {
		t.Errorf("PersistedHash() = %s, want %s", hash, attr.Hash())
	}

	got, err := repo.Get(ctx, attr.AttributeID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ValueString() != "red" || got.Name != "color" || got.Position != 1 {
		t.Errorf("Get() = %+v", got)
	}
	if got.Hash() != attr.Hash() {
		t.Error("hash of reloaded attribute differs from saved attribute")
	}

	if _, err := repo.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAttribute_Hash(t *testing.T) {
	base := newAttr("n1", AttributeTypeLabel, "color", "red", 1)

	tests := []struct {
		name   string
		mutate func(*Attribute)
		same   bool
	}{
		{"unchanged", func(*Attribute) {}, true},
		{"position ignored", func(a *Attribute) { a.Position = 7 }, true},
		{"modified time ignored", func(a *Attribute) { a.UtcDateModified = a.UtcDateModified.Add(time.Hour) }, true},
		{"value", func(a *Attribute) { a.Value = RawValue("blue") }, false},
		{"name", func(a *Attribute) { a.Name = "colour" }, false},
		{"inheritable", func(a *Attribute) { a.IsInheritable = true }, false},
		{"deleted", func(a *Attribute) { a.IsDeleted = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := *base
			tt.mutate(&cp)
			if got := cp.Hash() == base.Hash(); got != tt.same {
				t.Errorf("hash equal = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestAttributeRepo_Listing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedNotes(t, NewNoteRepo(db), "n1", "n2", "target")
	repo := NewAttributeRepo(db)

	deleted := newAttr("n1", AttributeTypeLabel, "old", "", 5)
	deleted.IsDeleted = true
	for _, a := range []*Attribute{
		newAttr("n1", AttributeTypeLabel, "b", "", 2),
		newAttr("n1", AttributeTypeLabel, "a", "", 1),
		newAttr("n1", AttributeTypeRelation, "link", "target", 3),
		newAttr("n2", AttributeTypeRelation, "link", "target", 1),
		deleted,
	} {
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	owned, err := repo.ListOwned(ctx, "n1")
	if err != nil {
		t.Fatalf("ListOwned() error = %v", err)
	}
	if len(owned) != 3 || owned[0].Name != "a" || owned[1].Name != "b" {
		t.Errorf("ListOwned() = %d attrs, want 3 in position order", len(owned))
	}

	max, err := repo.MaxPosition(ctx, "n1")
	if err != nil || max != 5 {
		t.Errorf("MaxPosition(n1) = %d, %v; want 5 (deleted attributes count)", max, err)
	}
	none, err := repo.MaxPosition(ctx, "target")
	if err != nil || none != 0 {
		t.Errorf("MaxPosition(target) = %d, %v; want 0", none, err)
	}

	rels, err := repo.ListByType(ctx, []string{"n1", "n2"}, AttributeTypeRelation)
	if err != nil {
		t.Fatalf("ListByType() error = %v", err)
	}
	if len(rels) != 2 {
		t.Errorf("ListByType() = %d, want 2", len(rels))
	}
}

func TestAttributeRepo_TemplateAndOwnLabels(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedNotes(t, NewNoteRepo(db), "tmpl", "n1", "self")
	repo := NewAttributeRepo(db)

	for _, a := range []*Attribute{
		newAttr("tmpl", AttributeTypeLabel, "cssClass", "from-template", 1),
		newAttr("tmpl", AttributeTypeLabel, "other", "ignored", 2),
		newAttr("n1", AttributeTypeRelation, "template", "tmpl", 1),
		newAttr("n1", AttributeTypeLabel, "iconClass", "bx-star", 2),
		newAttr("self", AttributeTypeRelation, "template", "self", 1),
		newAttr("self", AttributeTypeLabel, "cssClass", "own", 2),
	} {
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	names := []string{"cssClass", "iconClass"}

	tmpl, err := repo.TemplateLabels(ctx, []string{"n1", "self"}, "template", names)
	if err != nil {
		t.Fatalf("TemplateLabels() error = %v", err)
	}
	if len(tmpl) != 1 {
		t.Fatalf("TemplateLabels() = %v, want one row (self-reference excluded)", tmpl)
	}
	if tmpl[0] != (LabelRow{NoteID: "n1", Name: "cssClass", Value: "from-template"}) {
		t.Errorf("TemplateLabels()[0] = %+v", tmpl[0])
	}

	own, err := repo.OwnLabels(ctx, []string{"n1", "self"}, names)
	if err != nil {
		t.Fatalf("OwnLabels() error = %v", err)
	}
	if len(own) != 2 {
		t.Errorf("OwnLabels() = %v, want 2 rows", own)
	}

	labelled, err := repo.NotesWithLabel(ctx, "iconClass")
	if err != nil {
		t.Fatalf("NotesWithLabel() error = %v", err)
	}
	if len(labelled) != 1 || labelled[0] != "n1" {
		t.Errorf("NotesWithLabel() = %v, want [n1]", labelled)
	}
}

func TestAttributeRepo_MalformedDefinitionKeptRaw(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedNotes(t, NewNoteRepo(db), "n1")
	repo := NewAttributeRepo(db)

	attr := newAttr("n1", AttributeTypeLabelDefinition, "label:rating", "{not json", 1)
	if err := repo.Save(ctx, attr); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, attr.AttributeID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, ok := got.Value.(RawValue); !ok {
		t.Errorf("Value = %T, want RawValue", got.Value)
	}
	if got.ValueString() != "{not json" {
		t.Errorf("ValueString() = %q", got.ValueString())
	}
}

package storage

import (
	"encoding/json"
	"fmt"
)

// AttributeValue is either a RawValue or a DefinitionValue.
type AttributeValue interface {
	// String returns the persisted representation.
	String() string
	isAttributeValue()
}

// RawValue is a plain string value: label text, relation target note id, or a
// definition whose schema could not be parsed.
type RawValue string

func (v RawValue) String() string { return string(v) }
func (RawValue) isAttributeValue() {}

// DefinitionValue is the schema carried by label-definition and
// relation-definition attributes.
type DefinitionValue struct {
	LabelType        string `json:"labelType,omitempty"`
	MultiplicityType string `json:"multiplicityType,omitempty"`
	NumberPrecision  int    `json:"numberPrecision,omitempty"`
	InverseRelation  string `json:"inverseRelation,omitempty"`
	IsPromoted       bool   `json:"isPromoted,omitempty"`
}

func (v DefinitionValue) String() string {
	b, err := json.Marshal(v)
	if err != nil {
		// DefinitionValue holds only scalar fields.
		return "{}"
	}
	return string(b)
}

func (DefinitionValue) isAttributeValue() {}

// ParseAttributeValue interprets a persisted value for the given type. For
// definition types it tries to decode the schema; on failure it returns the
// raw string together with the parse error so the caller can report the
// degraded value.
func ParseAttributeValue(t AttributeType, raw string) (AttributeValue, error) {
	if !t.IsDefinition() {
		return RawValue(raw), nil
	}
	var def DefinitionValue
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return RawValue(raw), fmt.Errorf("malformed %s value: %w", t, err)
	}
	return def, nil
}

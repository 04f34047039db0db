package storage

import "testing"

func TestParseAttributeValue(t *testing.T) {
	tests := []struct {
		name    string
		typ     AttributeType
		raw     string
		wantDef bool
		wantErr bool
	}{
		{"label stays raw", AttributeTypeLabel, `{"labelType":"number"}`, false, false},
		{"relation stays raw", AttributeTypeRelation, "target", false, false},
		{"label definition", AttributeTypeLabelDefinition, `{"labelType":"number","numberPrecision":2}`, true, false},
		{"relation definition", AttributeTypeRelationDefinition, `{"inverseRelation":"child"}`, true, false},
		{"malformed definition", AttributeTypeLabelDefinition, "promoted,single", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseAttributeValue(tt.typ, tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAttributeValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			_, isDef := v.(DefinitionValue)
			if isDef != tt.wantDef {
				t.Errorf("ParseAttributeValue() = %T, want definition %v", v, tt.wantDef)
			}
			if !tt.wantDef && v.String() != tt.raw {
				t.Errorf("raw value = %q, want %q", v.String(), tt.raw)
			}
		})
	}
}

func TestDefinitionValue_String(t *testing.T) {
	v := DefinitionValue{LabelType: "number", NumberPrecision: 2, IsPromoted: true}
	want := `{"labelType":"number","numberPrecision":2,"isPromoted":true}`
	if got := v.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

package models

import (
	"encoding/json"
	"testing"
)

func TestEntity_UnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"id": "https://example.org/manifest/1",
		"type": "Manifest",
		"label": {"en": ["Test Manifest"]},
		"viewingDirection": "left-to-right",
		"items": [
			{"id": "https://example.org/canvas/1", "type": "Canvas", "height": 1000, "width": 800}
		],
		"structures": [
			{"id": "https://example.org/range/1", "type": "Range"}
		]
	}`)

	var e Entity
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if e.ID != "https://example.org/manifest/1" {
		t.Errorf("ID = %q, want 'https://example.org/manifest/1'", e.ID)
	}
	if e.Type != TypeManifest {
		t.Errorf("Type = %q, want Manifest", e.Type)
	}
	if len(e.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(e.Items))
	}
	if e.Items[0].Type != TypeCanvas {
		t.Errorf("Items[0].Type = %q, want Canvas", e.Items[0].Type)
	}
	if len(e.Structures) != 1 {
		t.Fatalf("Expected 1 structure, got %d", len(e.Structures))
	}

	// Structural keys must not leak into the payload map.
	for _, key := range []string{"id", "type", "items", "structures", "annotations"} {
		if _, ok := e.Fields[key]; ok {
			t.Errorf("Structural key %q found in Fields", key)
		}
	}
	if e.Field("viewingDirection") != "left-to-right" {
		t.Errorf("Field('viewingDirection') = %v, want 'left-to-right'", e.Field("viewingDirection"))
	}
	if e.Items[0].Field("height") != float64(1000) {
		t.Errorf("Items[0].Field('height') = %v, want 1000", e.Items[0].Field("height"))
	}
}

func TestEntity_MarshalJSON_RoundTrip(t *testing.T) {
	original := []byte(`{
		"id": "https://example.org/canvas/1",
		"type": "Canvas",
		"height": 1000,
		"width": 800,
		"custom:property": {"nested": true},
		"items": [
			{"id": "https://example.org/page/1", "type": "AnnotationPage"}
		]
	}`)

	var e Entity
	if err := json.Unmarshal(original, &e); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	data, err := json.Marshal(&e)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded Entity
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal round trip: %v", err)
	}

	if decoded.ID != e.ID {
		t.Errorf("Round trip ID = %q, want %q", decoded.ID, e.ID)
	}
	if decoded.Field("custom:property") == nil {
		t.Error("Round trip lost custom:property")
	}
	if len(decoded.Items) != 1 {
		t.Errorf("Round trip items = %d, want 1", len(decoded.Items))
	}
}

func TestEntity_MarshalJSON_OmitsEmptyChildSlots(t *testing.T) {
	e := &Entity{ID: "urn:test:1", Type: TypeCanvas}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	for _, key := range []string{"items", "structures", "annotations"} {
		if _, ok := raw[key]; ok {
			t.Errorf("Empty child slot %q was serialized", key)
		}
	}
}

func TestEntity_Motivation(t *testing.T) {
	tests := []struct {
		name       string
		motivation interface{}
		want       string
	}{
		{"string motivation", "painting", "painting"},
		{"list motivation", []interface{}{"supplementing", "commenting"}, "supplementing"},
		{"missing motivation", nil, ""},
		{"non-string list", []interface{}{42}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entity{ID: "urn:test:1", Type: TypeAnnotation}
			if tt.motivation != nil {
				e.SetField("motivation", tt.motivation)
			}
			if got := e.Motivation(); got != tt.want {
				t.Errorf("Motivation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		input string
		want  EntityType
		ok    bool
	}{
		{"Collection", TypeCollection, true},
		{"Manifest", TypeManifest, true},
		{"Canvas", TypeCanvas, true},
		{"Range", TypeRange, true},
		{"AnnotationPage", TypeAnnotationPage, true},
		{"Annotation", TypeAnnotation, true},
		{"SpecificResource", "SpecificResource", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseEntityType(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseEntityType(%q) = (%q, %v), want (%q, %v)",
					tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

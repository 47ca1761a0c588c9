package models

import (
	"strings"
	"testing"
)

func TestEntity_Clone_Independence(t *testing.T) {
	original := &Entity{
		ID:   "urn:test:manifest",
		Type: TypeManifest,
		Items: []*Entity{
			{ID: "urn:test:canvas", Type: TypeCanvas},
		},
	}
	original.SetField("label", map[string]interface{}{
		"en": []interface{}{"Original"},
	})

	clone := original.Clone()

	// Mutate the clone at every level.
	clone.ID = "urn:test:other"
	clone.Items[0].ID = "urn:test:other-canvas"
	clone.Fields["label"].(map[string]interface{})["en"].([]interface{})[0] = "Changed"

	if original.ID != "urn:test:manifest" {
		t.Errorf("Clone mutation leaked into original ID: %q", original.ID)
	}
	if original.Items[0].ID != "urn:test:canvas" {
		t.Errorf("Clone mutation leaked into original child: %q", original.Items[0].ID)
	}
	if got := original.Fields["label"].(map[string]interface{})["en"].([]interface{})[0]; got != "Original" {
		t.Errorf("Clone mutation leaked into original payload: %v", got)
	}
}

func TestEntity_CloneShallow(t *testing.T) {
	original := &Entity{
		ID:   "urn:test:canvas",
		Type: TypeCanvas,
		Items: []*Entity{
			{ID: "urn:test:page", Type: TypeAnnotationPage},
		},
	}
	original.SetField("height", float64(1000))

	shallow := original.CloneShallow()

	if shallow.Items != nil || shallow.Structures != nil || shallow.Annotations != nil {
		t.Error("CloneShallow kept child slots, want them zeroed")
	}
	if shallow.Field("height") != float64(1000) {
		t.Errorf("CloneShallow Field('height') = %v, want 1000", shallow.Field("height"))
	}

	shallow.Fields["height"] = float64(2000)
	if original.Field("height") != float64(1000) {
		t.Error("CloneShallow payload is shared with the original")
	}
}

func TestClone_Nil(t *testing.T) {
	var e *Entity
	if e.Clone() != nil {
		t.Error("Clone of nil entity should be nil")
	}
	if e.CloneShallow() != nil {
		t.Error("CloneShallow of nil entity should be nil")
	}
	if CloneEntities(nil) != nil {
		t.Error("CloneEntities(nil) should be nil")
	}
	if CloneFields(nil) != nil {
		t.Error("CloneFields(nil) should be nil")
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if !strings.HasPrefix(a, "urn:uuid:") {
		t.Errorf("GenerateID() = %q, want urn:uuid: prefix", a)
	}
	if a == b {
		t.Error("GenerateID() returned the same id twice")
	}
}

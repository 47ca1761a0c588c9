package vault

import (
	"testing"

	"evalgo.org/tessella/models"
)

func TestUpdateEntity_MergesPayload(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	next := UpdateEntity(st, "urn:c1", map[string]interface{}{
		"width": float64(1200),
		"label": map[string]interface{}{"en": []interface{}{"Updated"}},
	})

	c1 := GetEntity(next, "urn:c1")
	if c1.Field("width") != float64(1200) {
		t.Errorf("width = %v, want 1200", c1.Field("width"))
	}
	if c1.Field("height") != float64(1000) {
		t.Errorf("height = %v, want untouched 1000", c1.Field("height"))
	}

	// The previous state must be untouched.
	old := GetEntity(st, "urn:c1")
	if old.Field("width") != float64(800) {
		t.Errorf("Previous state width = %v, want 800", old.Field("width"))
	}
}

func TestUpdateEntity_IgnoresStructuralFields(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	next := UpdateEntity(st, "urn:c1", map[string]interface{}{
		"id":    "urn:hijacked",
		"type":  "Manifest",
		"items": []interface{}{"x"},
		"width": float64(900),
	})

	c1 := GetEntity(next, "urn:c1")
	if c1 == nil {
		t.Fatal("urn:c1 disappeared after update")
	}
	if c1.ID != "urn:c1" || c1.Type != models.TypeCanvas {
		t.Errorf("Structural fields changed: id=%q type=%q", c1.ID, c1.Type)
	}
	if c1.Field("items") != nil {
		t.Error("'items' leaked into the payload map")
	}
	if c1.Field("width") != float64(900) {
		t.Errorf("width = %v, want 900 (non-structural fields still applied)", c1.Field("width"))
	}
}

func TestUpdateEntity_UnknownIDIsNoOp(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	next := UpdateEntity(st, "urn:nope", map[string]interface{}{"width": 1})
	if next != st {
		t.Error("Update of unknown id should return the same state")
	}
}

func TestUpdateEntity_HealsStaleIndex(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	// Simulate index drift: the canvas sits in its bucket but the type
	// index forgot it.
	delete(st.TypeIndex, "urn:c1")

	next := UpdateEntity(st, "urn:c1", map[string]interface{}{"width": float64(900)})

	if got, ok := GetEntityType(next, "urn:c1"); !ok || got != models.TypeCanvas {
		t.Errorf("Type index not healed: (%q, %v)", got, ok)
	}
	c1 := GetEntity(next, "urn:c1")
	if c1 == nil || c1.Field("width") != float64(900) {
		t.Error("Update did not proceed after healing the index")
	}
	if len(CheckConsistency(next)) != 0 {
		t.Errorf("Healed state still inconsistent: %v", CheckConsistency(next))
	}
}

func TestAddEntity_InsertsUnderParent(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	canvas := parseEntity(t, `{"id": "urn:c3", "type": "Canvas", "height": 500, "width": 500}`)
	next := AddEntity(st, canvas, "urn:m1")

	if !HasEntity(next, "urn:c3") {
		t.Fatal("Added entity not active")
	}
	children := GetChildIDs(next, "urn:m1")
	if children[len(children)-1] != "urn:c3" {
		t.Errorf("New entity not appended: %v", children)
	}
	if GetParentID(next, "urn:c3") != "urn:m1" {
		t.Errorf("GetParentID = %q, want 'urn:m1'", GetParentID(next, "urn:c3"))
	}
	if HasEntity(st, "urn:c3") {
		t.Error("Add leaked into the previous state")
	}
}

func TestAddEntity_DoesNotWalkChildren(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	canvas := parseEntity(t, `{
		"id": "urn:c3", "type": "Canvas",
		"items": [{"id": "urn:p9", "type": "AnnotationPage"}]
	}`)
	next := AddEntity(st, canvas, "urn:m1")

	if HasEntity(next, "urn:p9") {
		t.Error("Single insertion must not create nested resources")
	}
	if c3 := GetEntity(next, "urn:c3"); len(c3.Items) != 0 {
		t.Error("Stored entity kept nested children")
	}
}

func TestAddEntity_CapturesExtensions(t *testing.T) {
	st := NewState()
	manifest := parseEntity(t, `{"id": "urn:m1", "type": "Manifest",
		"label": {"en": ["M"]}, "custom:tag": "x"}`)

	next := AddEntity(st, manifest, "")

	m := GetEntity(next, "urn:m1")
	if m.Field("custom:tag") != nil {
		t.Error("Extension field left in stored payload")
	}
	if ext := next.Extensions["urn:m1"]; ext == nil || ext["custom:tag"] != "x" {
		t.Errorf("Extensions entry = %v, want custom:tag captured", ext)
	}
}

func TestAddEntity_NoOps(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	tests := []struct {
		name   string
		entity *models.Entity
		parent string
	}{
		{"nil entity", nil, "urn:m1"},
		{"no id", &models.Entity{Type: models.TypeCanvas}, "urn:m1"},
		{"already active", &models.Entity{ID: "urn:c1", Type: models.TypeCanvas}, "urn:m1"},
		{"unknown parent", &models.Entity{ID: "urn:c9", Type: models.TypeCanvas}, "urn:nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if next := AddEntity(st, tt.entity, tt.parent); next != st {
				t.Error("Expected a no-op returning the same state")
			}
		})
	}
}

func TestAddEntity_RejectsTrashedID(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	st = MoveToTrash(st, "urn:c1")

	next := AddEntity(st, &models.Entity{ID: "urn:c1", Type: models.TypeCanvas}, "urn:m1")
	if next != st {
		t.Error("Adding an id that sits in the trash must be a no-op")
	}
}

func TestAddEntity_RejectsIDPreservedInTrash(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	st = MoveToTrash(st, "urn:c1")

	// urn:p1 is not a trash root, but it is preserved inside urn:c1's
	// record and comes back on restore; re-using it would leave the id in
	// two parents' child lists.
	page := &models.Entity{ID: "urn:p1", Type: models.TypeAnnotationPage}
	next := AddEntity(st, page, "urn:c2")
	if next != st {
		t.Error("Adding an id preserved inside a trash record must be a no-op")
	}

	restored := RestoreFromTrash(st, "urn:c1", RestoreOptions{})
	if GetParentID(restored, "urn:p1") != "urn:c1" {
		t.Errorf("Parent = %q, want 'urn:c1'", GetParentID(restored, "urn:p1"))
	}
	if len(CheckConsistency(restored)) != 0 {
		t.Errorf("State inconsistent after restore: %v", CheckConsistency(restored))
	}
}

func TestRemoveEntity_PermanentErasesSubtree(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	next := RemoveEntity(st, "urn:c2", RemoveOptions{Permanent: true})

	for _, id := range []string{"urn:c2", "urn:p2", "urn:a2", "urn:p3", "urn:a3"} {
		if HasEntity(next, id) {
			t.Errorf("%s still active after permanent removal", id)
		}
		if GetTrashedEntity(next, id) != nil {
			t.Errorf("%s ended up in the trash during permanent removal", id)
		}
	}
	if containsID(GetChildIDs(next, "urn:m1"), "urn:c2") {
		t.Error("Removed canvas still listed under its parent")
	}
	if len(CheckConsistency(next)) != 0 {
		t.Errorf("State inconsistent after permanent removal: %v", CheckConsistency(next))
	}

	// Previous state untouched.
	if !HasEntity(st, "urn:c2") {
		t.Error("Permanent removal leaked into the previous state")
	}
}

func TestRemoveEntity_DefaultIsSoftDelete(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	next := RemoveEntity(st, "urn:c1", RemoveOptions{})

	if HasEntity(next, "urn:c1") {
		t.Error("Soft-deleted entity still active")
	}
	if GetTrashedEntity(next, "urn:c1") == nil {
		t.Error("Soft delete produced no trash record")
	}
}

func TestRemoveEntity_DropsCollectionMemberships(t *testing.T) {
	tree := parseEntity(t, `{
		"id": "urn:col1", "type": "Collection",
		"items": [{"id": "urn:m1", "type": "Manifest"}]
	}`)
	st, err := Normalize(tree)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	next := RemoveEntity(st, "urn:m1", RemoveOptions{Permanent: true})

	if containsID(GetCollectionMembers(next, "urn:col1"), "urn:m1") {
		t.Error("Removed manifest still listed as collection member")
	}
	if len(CheckConsistency(next)) != 0 {
		t.Errorf("State inconsistent: %v", CheckConsistency(next))
	}
}

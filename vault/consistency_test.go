package vault

import (
	"testing"

	"evalgo.org/tessella/models"
)

func violationKinds(violations []Violation) map[ViolationKind]int {
	out := make(map[ViolationKind]int)
	for _, v := range violations {
		out[v.Kind]++
	}
	return out
}

func TestCheckConsistency_CleanState(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got := CheckConsistency(st); len(got) != 0 {
		t.Errorf("Fresh state has violations: %v", got)
	}
}

func TestCheckConsistency_AfterMutationChain(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	st = UpdateEntity(st, "urn:c1", map[string]interface{}{"width": float64(900)})
	st = AddEntity(st, parseEntity(t, `{"id": "urn:c3", "type": "Canvas"}`), "urn:m1")
	st = MoveEntity(st, "urn:c3", "urn:c1", 0)
	st = MoveEntity(st, "urn:c3", "urn:m1", -1)
	st = MoveToTrash(st, "urn:c2")
	st = RestoreFromTrash(st, "urn:c2", RestoreOptions{})
	st = RemoveEntity(st, "urn:c3", RemoveOptions{Permanent: true})

	if got := CheckConsistency(st); len(got) != 0 {
		t.Errorf("State inconsistent after mutation chain: %v", got)
	}
}

func TestCheckConsistency_StaleIndex(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	st.TypeIndex["urn:ghost"] = models.TypeCanvas

	kinds := violationKinds(CheckConsistency(st))
	if kinds[ViolationStaleIndex] == 0 {
		t.Error("Stale index entry not reported")
	}
}

func TestCheckConsistency_BucketWithoutIndex(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	delete(st.TypeIndex, "urn:c1")

	kinds := violationKinds(CheckConsistency(st))
	if kinds[ViolationStaleIndex] == 0 {
		t.Error("Bucket record without index entry not reported")
	}
}

func TestCheckConsistency_DuplicateChild(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	st.References["urn:m1"] = []string{"urn:c1", "urn:c1", "urn:c2", "urn:r1"}

	kinds := violationKinds(CheckConsistency(st))
	if kinds[ViolationDuplicateChild] == 0 {
		t.Error("Duplicate child not reported")
	}
}

func TestCheckConsistency_DanglingReference(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	st.References["urn:c1"] = appendID(st.References["urn:c1"], "urn:p2")

	kinds := violationKinds(CheckConsistency(st))
	if kinds[ViolationDanglingReference] == 0 {
		t.Error("Child listed under the wrong parent not reported")
	}
}

func TestCheckConsistency_AsymmetricMembership(t *testing.T) {
	st, err := Normalize(parseEntity(t, `{
		"id": "urn:col1", "type": "Collection",
		"items": [{"id": "urn:m1", "type": "Manifest"}]
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	delete(st.MemberOfCollections, "urn:m1")

	kinds := violationKinds(CheckConsistency(st))
	if kinds[ViolationAsymmetricMembership] == 0 {
		t.Error("One-directional membership not reported")
	}
}

func TestCheckConsistency_TrashedAndActive(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	st.TrashedEntities["urn:c1"] = &TrashedEntity{
		Entity: GetEntity(st, "urn:c1"),
	}

	kinds := violationKinds(CheckConsistency(st))
	if kinds[ViolationTrashedAndActive] == 0 {
		t.Error("Id that is both active and trashed not reported")
	}
}

func TestCheckConsistency_NeverRepairs(t *testing.T) {
	st, err := Normalize(sampleManifest(t))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	st.TypeIndex["urn:ghost"] = models.TypeCanvas
	first := CheckConsistency(st)
	second := CheckConsistency(st)

	if len(first) == 0 || len(first) != len(second) {
		t.Errorf("Audit results differ between runs: %d then %d", len(first), len(second))
	}
}

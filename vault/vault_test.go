package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_LoadAndExport(t *testing.T) {
	v := New()
	require.NoError(t, v.Load(sampleManifest(t)))

	assert.Equal(t, "urn:m1", GetRootID(v.State()))
	assert.Equal(t, 11, GetTotalEntityCount(v.State()))

	exported := v.Export()
	require.NotNil(t, exported)
	assert.True(t, jsonEqual(t, sampleManifest(t), exported))
}

func TestVault_LoadError(t *testing.T) {
	v := New()
	err := v.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault: load")

	// A failed load leaves the held state untouched.
	assert.Equal(t, 0, GetTotalEntityCount(v.State()))
}

func TestVault_ListenersNotifiedOncePerOperation(t *testing.T) {
	v := New()

	var calls int
	var lastState *NormalizedState
	v.Subscribe(func(st *NormalizedState) {
		calls++
		lastState = st
	})

	require.NoError(t, v.Load(sampleManifest(t)))
	assert.Equal(t, 1, calls)
	assert.Same(t, v.State(), lastState)

	v.Update("urn:c1", map[string]interface{}{"width": float64(900)})
	assert.Equal(t, 2, calls)

	v.MoveToTrash("urn:c2")
	assert.Equal(t, 3, calls)
}

func TestVault_Unsubscribe(t *testing.T) {
	v := New()

	var calls int
	unsubscribe := v.Subscribe(func(st *NormalizedState) { calls++ })

	require.NoError(t, v.Load(sampleManifest(t)))
	assert.Equal(t, 1, calls)

	unsubscribe()
	v.Update("urn:c1", map[string]interface{}{"width": float64(900)})
	assert.Equal(t, 1, calls, "listener called after unsubscribe")
}

func TestVault_MultipleListeners(t *testing.T) {
	v := New()

	var a, b int
	v.Subscribe(func(st *NormalizedState) { a++ })
	v.Subscribe(func(st *NormalizedState) { b++ })

	require.NoError(t, v.Load(sampleManifest(t)))
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestVault_SnapshotRestore(t *testing.T) {
	v := New()
	require.NoError(t, v.Load(sampleManifest(t)))

	snap := v.Snapshot()
	v.MoveToTrash("urn:c2")
	require.False(t, HasEntity(v.State(), "urn:c2"))

	v.Restore(snap)
	assert.True(t, HasEntity(v.State(), "urn:c2"))
	assert.Empty(t, GetTrashedIDs(v.State()))

	// The snapshot is a reference capture of an immutable value: restoring
	// it yields the exact state, not a reconstruction.
	assert.Same(t, snap, v.State())
}

func TestVault_SnapshotUnaffectedByLaterMutations(t *testing.T) {
	v := New()
	require.NoError(t, v.Load(sampleManifest(t)))

	snap := v.Snapshot()
	v.Update("urn:c1", map[string]interface{}{"width": float64(900)})
	v.Remove("urn:c2", RemoveOptions{Permanent: true})

	assert.Equal(t, float64(800), GetEntity(snap, "urn:c1").Field("width"))
	assert.True(t, HasEntity(snap, "urn:c2"))
}

func TestVault_RestoreNilIsNoOp(t *testing.T) {
	v := New()
	require.NoError(t, v.Load(sampleManifest(t)))

	var calls int
	v.Subscribe(func(st *NormalizedState) { calls++ })

	before := v.State()
	v.Restore(nil)
	assert.Same(t, before, v.State())
	assert.Equal(t, 0, calls, "nil restore must not notify")
}

func TestVault_Reload(t *testing.T) {
	v := New()
	require.NoError(t, v.Load(sampleManifest(t)))

	// An external collaborator edits the exported tree and hands it back.
	edited := parseEntity(t, `{
		"id": "urn:m1", "type": "Manifest",
		"items": [{"id": "urn:c9", "type": "Canvas"}]
	}`)
	require.NoError(t, v.Reload(edited))

	assert.True(t, HasEntity(v.State(), "urn:c9"))
	assert.False(t, HasEntity(v.State(), "urn:c1"), "reload must replace, not merge")
}

func TestVault_EmptyTrashReportsResults(t *testing.T) {
	v := New()
	require.NoError(t, v.Load(sampleManifest(t)))

	v.MoveToTrash("urn:c1")
	deleted, errs := v.EmptyTrash()

	assert.Equal(t, 1, deleted)
	assert.Empty(t, errs)
	assert.Empty(t, GetTrashedIDs(v.State()))
}

func TestVault_CollectionOps(t *testing.T) {
	v := New()
	require.NoError(t, v.Load(parseEntity(t, `{
		"id": "urn:col1", "type": "Collection",
		"items": [{"id": "urn:m1", "type": "Manifest"}]
	}`)))
	v.Add(parseEntity(t, `{"id": "urn:m2", "type": "Manifest"}`), "")

	v.AddToCollection("urn:col1", "urn:m2")
	assert.True(t, ContainsMember(v.State(), "urn:col1", "urn:m2"))

	v.RemoveFromCollection("urn:col1", "urn:m2")
	assert.False(t, ContainsMember(v.State(), "urn:col1", "urn:m2"))
}

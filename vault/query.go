package vault

import (
	"evalgo.org/tessella/models"
)

// The query layer is pure: no accessor below mutates state or has side
// effects, and all of them operate against whatever immutable snapshot they
// are handed.

// GetEntity returns the active entity with the given id, or nil. O(1).
func GetEntity(st *NormalizedState, id string) *models.Entity {
	t, ok := st.TypeIndex[id]
	if !ok {
		return nil
	}
	e, _ := bucketLookup(st, t, id)
	return e
}

// GetEntityType returns the type of an active id. O(1).
func GetEntityType(st *NormalizedState, id string) (models.EntityType, bool) {
	t, ok := st.TypeIndex[id]
	return t, ok
}

// HasEntity reports whether id is active in the state. O(1).
func HasEntity(st *NormalizedState, id string) bool {
	_, ok := st.TypeIndex[id]
	return ok
}

// GetParentID returns the hierarchical parent of id, or "" for roots and
// Collection-referenced resources. O(1).
func GetParentID(st *NormalizedState, id string) string {
	return st.ReverseRefs[id]
}

// GetChildIDs returns the ordered child-id list of a parent. The returned
// slice is shared with the state and must not be modified. O(1).
func GetChildIDs(st *NormalizedState, id string) []string {
	return st.References[id]
}

// GetRootID returns the id of the tree's current root, or "" once the root
// has been removed.
func GetRootID(st *NormalizedState) string {
	return st.RootID
}

// GetEntitiesByType returns all active entities of one type. Order is
// unspecified. O(bucket).
func GetEntitiesByType(st *NormalizedState, t models.EntityType) []*models.Entity {
	b, ok := st.Entities[t]
	if !ok {
		return nil
	}
	out := make([]*models.Entity, 0, len(b))
	for _, e := range b {
		out = append(out, e)
	}
	return out
}

// GetAncestors walks the reverse references from id up to the root and
// returns the chain, nearest parent first. O(depth).
func GetAncestors(st *NormalizedState, id string) []string {
	var out []string
	for {
		parent, ok := st.ReverseRefs[id]
		if !ok || parent == "" {
			return out
		}
		out = append(out, parent)
		id = parent
	}
}

// GetDescendants returns every id reachable from id through hierarchical
// references, breadth-first, excluding id itself. O(subtree).
func GetDescendants(st *NormalizedState, id string) []string {
	var out []string
	queue := append([]string(nil), st.References[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		out = append(out, next)
		queue = append(queue, st.References[next]...)
	}
	return out
}

// GetAllEntityIDs returns every active id across all buckets. Order is
// unspecified. O(n).
func GetAllEntityIDs(st *NormalizedState) []string {
	out := make([]string, 0, len(st.TypeIndex))
	for id := range st.TypeIndex {
		out = append(out, id)
	}
	return out
}

// GetEntityCount returns the number of active entities of one type. O(1).
func GetEntityCount(st *NormalizedState, t models.EntityType) int {
	return len(st.Entities[t])
}

// GetTotalEntityCount returns the number of active entities of all types.
// O(1).
func GetTotalEntityCount(st *NormalizedState) int {
	return len(st.TypeIndex)
}

// GetTrashedIDs returns the ids of all soft-deleted roots. Order is
// unspecified.
func GetTrashedIDs(st *NormalizedState) []string {
	out := make([]string, 0, len(st.TrashedEntities))
	for id := range st.TrashedEntities {
		out = append(out, id)
	}
	return out
}

// GetTrashedEntity returns the trash record for id, or nil.
func GetTrashedEntity(st *NormalizedState, id string) *TrashedEntity {
	return st.TrashedEntities[id]
}

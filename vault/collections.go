package vault

import (
	"evalgo.org/tessella/models"
)

// The collection-membership layer maintains the symmetric many-to-many
// relation between Collections and their members without ever touching the
// hierarchical indexes. Membership is not ownership: removing a resource
// from a Collection never deletes the resource.

// AddToCollection returns a new state with id recorded as a member of
// collectionID. Adding an existing member, an unknown id, or a non-Collection
// target is a logged no-op.
func AddToCollection(st *NormalizedState, collectionID, id string) *NormalizedState {
	t, ok := st.TypeIndex[collectionID]
	if !ok || t != models.TypeCollection {
		logger.Warn().Str("collection", collectionID).
			Msg("collection add: target is not an active collection, no-op")
		return st
	}
	if !HasEntity(st, id) {
		logger.Warn().Str("id", id).Msg("collection add: unknown member, no-op")
		return st
	}
	if containsID(st.CollectionMembers[collectionID], id) {
		return st
	}

	next := st.shallow()
	next.CollectionMembers = copyListMap(st.CollectionMembers)
	next.CollectionMembers[collectionID] = appendID(st.CollectionMembers[collectionID], id)
	next.MemberOfCollections = copyListMap(st.MemberOfCollections)
	next.MemberOfCollections[id] = appendID(st.MemberOfCollections[id], collectionID)
	return next
}

// RemoveFromCollection returns a new state with id no longer a member of
// collectionID. Unknown pairs are logged no-ops.
func RemoveFromCollection(st *NormalizedState, collectionID, id string) *NormalizedState {
	if !containsID(st.CollectionMembers[collectionID], id) {
		logger.Warn().Str("collection", collectionID).Str("id", id).
			Msg("collection remove: not a member, no-op")
		return st
	}

	next := st.shallow()
	next.CollectionMembers = copyListMap(st.CollectionMembers)
	next.CollectionMembers[collectionID] = removeID(st.CollectionMembers[collectionID], id)
	next.MemberOfCollections = copyListMap(st.MemberOfCollections)
	next.MemberOfCollections[id] = removeID(st.MemberOfCollections[id], collectionID)
	if len(next.MemberOfCollections[id]) == 0 {
		delete(next.MemberOfCollections, id)
	}
	return next
}

// GetCollectionsContaining returns the ids of all Collections id belongs to.
// The returned slice is shared with the state and must not be modified.
func GetCollectionsContaining(st *NormalizedState, id string) []string {
	return st.MemberOfCollections[id]
}

// GetCollectionMembers returns the ordered member ids of a Collection. The
// returned slice is shared with the state and must not be modified.
func GetCollectionMembers(st *NormalizedState, collectionID string) []string {
	return st.CollectionMembers[collectionID]
}

// ContainsMember reports whether id is a member of collectionID.
func ContainsMember(st *NormalizedState, collectionID, id string) bool {
	return containsID(st.CollectionMembers[collectionID], id)
}

// IsOrphanManifest reports whether id is a Manifest with zero collection
// memberships.
func IsOrphanManifest(st *NormalizedState, id string) bool {
	if t, ok := st.TypeIndex[id]; !ok || t != models.TypeManifest {
		return false
	}
	return len(st.MemberOfCollections[id]) == 0
}

// GetOrphanManifests returns every active Manifest that no Collection
// references. Order is unspecified.
func GetOrphanManifests(st *NormalizedState) []string {
	var out []string
	for id := range st.Entities[models.TypeManifest] {
		if len(st.MemberOfCollections[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

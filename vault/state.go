// Package vault implements a flat, normalized, O(1)-addressable
// representation of a IIIF Presentation resource tree.
//
// A nested Collection/Manifest/Canvas/Range/AnnotationPage/Annotation tree is
// flattened once by Normalize into a NormalizedState; all reads and writes go
// through the query, mutation, movement, collection-membership and trash
// layers against that state; Denormalize reconstructs the original nested
// tree, including custom fields unknown to the schema, at any time.
//
// Every mutating function returns a new state value and never modifies the
// one it was given. Only the maps and slices a mutation touches are copied;
// everything else is shared with the previous state, which makes snapshots
// (and therefore undo/redo) a plain reference capture.
//
// The package is deliberately not thread-safe: it assumes one logical owner
// per state, matching its single-process interactive-editing use case.
// Concurrent callers must serialize externally.
package vault

import (
	"time"

	"evalgo.org/tessella/models"
)

// NormalizedState is the flat, id-indexed representation of a resource tree.
//
// Hierarchical ownership (Manifest owns Canvases and Ranges, Canvas owns
// AnnotationPages, AnnotationPage owns Annotations, Range may own nested
// Ranges) lives in References/ReverseRefs. Collection membership is a
// separate many-to-many relation in CollectionMembers/MemberOfCollections:
// Collections reference, they do not own.
type NormalizedState struct {
	// Entities holds one bucket per resource type, keyed by id. Stored
	// entities have their child slots zeroed out; children are
	// reconstructed from References, never stored redundantly.
	Entities map[models.EntityType]map[string]*models.Entity `json:"entities"`

	// TypeIndex maps every active id to its resource type.
	TypeIndex map[string]models.EntityType `json:"typeIndex"`

	// References maps a parent id to its ordered child-id list.
	References map[string][]string `json:"references"`

	// ReverseRefs maps a child id to its single hierarchical parent.
	ReverseRefs map[string]string `json:"reverseRefs"`

	// CollectionMembers maps a Collection id to its ordered member ids.
	CollectionMembers map[string][]string `json:"collectionMembers"`

	// MemberOfCollections maps a member id to the Collections containing it.
	MemberOfCollections map[string][]string `json:"memberOfCollections"`

	// Extensions maps an id to the custom (non-schema) fields captured at
	// normalize time and reapplied at denormalize time.
	Extensions map[string]map[string]interface{} `json:"extensions"`

	// TrashedEntities holds the soft-deleted roots, keyed by id.
	TrashedEntities map[string]*TrashedEntity `json:"trashedEntities"`

	// RootID is the id of the tree's current root, or "" once the root has
	// been removed. It is never implicitly repopulated.
	RootID string `json:"rootId"`
}

// TrashedEntity is the snapshot captured when a resource is soft-deleted.
//
// Cascade-trash preserves the full subtree: Subtree records every descendant
// so that restoration rebuilds the resource exactly as it was, not just the
// trashed root.
type TrashedEntity struct {
	// Entity is the trashed root's payload, child slots zeroed.
	Entity *models.Entity `json:"entity"`

	// OriginalParentID is the hierarchical parent at trash time, or "".
	OriginalParentID string `json:"originalParentId"`

	// TrashedAt is the soft-delete timestamp.
	TrashedAt time.Time `json:"trashedAt"`

	// MemberOf lists the Collections the root belonged to at trash time.
	MemberOf []string `json:"memberOfCollections"`

	// ChildIDs is the root's direct child-id list at trash time.
	ChildIDs []string `json:"childIds"`

	// Subtree preserves every descendant of the trashed root.
	Subtree *SubtreeSnapshot `json:"subtree"`
}

// SubtreeSnapshot preserves the descendants of a trashed root: payloads,
// types, per-parent child order, extensions and collection memberships.
type SubtreeSnapshot struct {
	Entities   map[string]*models.Entity            `json:"entities"`
	Types      map[string]models.EntityType         `json:"types"`
	References map[string][]string                  `json:"references"`
	Extensions map[string]map[string]interface{}    `json:"extensions"`
	MemberOf   map[string][]string                  `json:"memberOfCollections"`
}

// NewState returns an empty normalized state with all indexes allocated.
func NewState() *NormalizedState {
	entities := make(map[models.EntityType]map[string]*models.Entity, len(models.EntityTypes))
	for _, t := range models.EntityTypes {
		entities[t] = make(map[string]*models.Entity)
	}
	return &NormalizedState{
		Entities:            entities,
		TypeIndex:           make(map[string]models.EntityType),
		References:          make(map[string][]string),
		ReverseRefs:         make(map[string]string),
		CollectionMembers:   make(map[string][]string),
		MemberOfCollections: make(map[string][]string),
		Extensions:          make(map[string]map[string]interface{}),
		TrashedEntities:     make(map[string]*TrashedEntity),
	}
}

// shallow returns a copy of the state struct sharing every index map with
// the receiver. Mutations call shallow first and then replace only the maps
// they are about to change with copies.
func (s *NormalizedState) shallow() *NormalizedState {
	next := *s
	return &next
}

// copyEntities copies the outer per-type map while sharing the untouched
// buckets.
func copyEntities(m map[models.EntityType]map[string]*models.Entity) map[models.EntityType]map[string]*models.Entity {
	out := make(map[models.EntityType]map[string]*models.Entity, len(m))
	for t, bucket := range m {
		out[t] = bucket
	}
	return out
}

// copyBucket copies one type bucket. Entity pointers are shared: stored
// entities are immutable by convention, replaced wholesale on update.
func copyBucket(m map[string]*models.Entity) map[string]*models.Entity {
	out := make(map[string]*models.Entity, len(m))
	for id, e := range m {
		out[id] = e
	}
	return out
}

func copyTypeIndex(m map[string]models.EntityType) map[string]models.EntityType {
	out := make(map[string]models.EntityType, len(m))
	for id, t := range m {
		out[id] = t
	}
	return out
}

func copyStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// copyListMap copies the outer map; the id slices themselves are shared and
// must be replaced, never appended to in place.
func copyListMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyExtensions(m map[string]map[string]interface{}) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(m))
	for id, ext := range m {
		out[id] = ext
	}
	return out
}

func copyTrash(m map[string]*TrashedEntity) map[string]*TrashedEntity {
	out := make(map[string]*TrashedEntity, len(m))
	for id, t := range m {
		out[id] = t
	}
	return out
}

// appendID returns a new slice with id appended, leaving the original
// untouched.
func appendID(list []string, id string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, id)
}

// insertID returns a new slice with id inserted at index. Out-of-range
// indexes clamp to append/prepend.
func insertID(list []string, id string, index int) []string {
	if index < 0 || index > len(list) {
		index = len(list)
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, id)
	out = append(out, list[index:]...)
	return out
}

// removeID returns a new slice with every occurrence of id removed, or the
// original slice when id is absent.
func removeID(list []string, id string) []string {
	found := false
	for _, v := range list {
		if v == id {
			found = true
			break
		}
	}
	if !found {
		return list
	}
	out := make([]string, 0, len(list)-1)
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// containsID reports whether list contains id.
func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

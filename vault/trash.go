package vault

import (
	"fmt"
	"sort"
	"time"

	"evalgo.org/tessella/models"
)

// The trash subsystem implements soft deletion as a state machine:
// Active -> Trashed -> Active (restored) or Deleted (terminal).

// MoveToTrash returns a new state with id soft-deleted. The trash record
// captures the root's payload, its original parent, its collection
// memberships, its direct child order and a snapshot of the entire
// descendant subtree, and the whole subtree is removed from the active
// indexes. Unknown ids are logged no-ops.
func MoveToTrash(st *NormalizedState, id string) *NormalizedState {
	if !HasEntity(st, id) {
		logger.Warn().Str("id", id).Msg("trash: unknown id, no-op")
		return st
	}

	t := st.TypeIndex[id]
	entity, _ := bucketLookup(st, t, id)
	descendants := GetDescendants(st, id)

	record := &TrashedEntity{
		Entity:           entity,
		OriginalParentID: st.ReverseRefs[id],
		TrashedAt:        time.Now().UTC(),
		MemberOf:         append([]string(nil), st.MemberOfCollections[id]...),
		ChildIDs:         append([]string(nil), st.References[id]...),
		Subtree:          snapshotSubtree(st, descendants),
	}

	doomed := append([]string{id}, descendants...)
	next := eraseAll(st, doomed)
	next.TrashedEntities = copyTrash(next.TrashedEntities)
	next.TrashedEntities[id] = record
	return next
}

// snapshotSubtree captures the descendants of a trashed root. Stored
// entities are immutable by convention, so the snapshot shares their
// pointers; the ordering and membership slices are copied.
func snapshotSubtree(st *NormalizedState, descendants []string) *SubtreeSnapshot {
	snap := &SubtreeSnapshot{
		Entities:   make(map[string]*models.Entity, len(descendants)),
		Types:      make(map[string]models.EntityType, len(descendants)),
		References: make(map[string][]string),
		Extensions: make(map[string]map[string]interface{}),
		MemberOf:   make(map[string][]string),
	}
	for _, id := range descendants {
		t := st.TypeIndex[id]
		snap.Types[id] = t
		if e, ok := bucketLookup(st, t, id); ok {
			snap.Entities[id] = e
		}
		if refs := st.References[id]; len(refs) > 0 {
			snap.References[id] = append([]string(nil), refs...)
		}
		if ext, ok := st.Extensions[id]; ok {
			snap.Extensions[id] = ext
		}
		if member := st.MemberOfCollections[id]; len(member) > 0 {
			snap.MemberOf[id] = append([]string(nil), member...)
		}
	}
	return snap
}

// RestoreOptions controls RestoreFromTrash.
type RestoreOptions struct {
	// ParentID overrides the original parent when non-empty.
	ParentID string

	// Index is the insertion position in the parent's child list. Nil or
	// negative appends; restore never recovers the original position unless
	// the caller supplies one explicitly.
	Index *int
}

// RestoreFromTrash returns a new state with the trashed root re-inserted
// under its original (or overridden) parent, its prior collection
// memberships re-established, and its preserved subtree rebuilt. The trash
// record is deleted. Unknown ids are logged no-ops, as is restoring under a
// parent that no longer exists.
//
// A descendant id taken over by a new active entity while the record sat in
// the trash stays with the active entity: the preserved copy is dropped and
// the active entity's parent link is left alone. Restoring a former root
// brings its tree back detached; RootID is only ever set by normalization,
// so Export stays nil until the next Load or Reload.
func RestoreFromTrash(st *NormalizedState, id string, opts RestoreOptions) *NormalizedState {
	record, ok := st.TrashedEntities[id]
	if !ok {
		logger.Warn().Str("id", id).Msg("restore: id not in trash, no-op")
		return st
	}
	if HasEntity(st, id) {
		logger.Warn().Str("id", id).Msg("restore: id already active, no-op")
		return st
	}

	parentID := record.OriginalParentID
	if opts.ParentID != "" {
		parentID = opts.ParentID
	}
	if parentID != "" && !HasEntity(st, parentID) {
		logger.Warn().Str("id", id).Str("parent", parentID).
			Msg("restore: target parent no longer exists, no-op")
		return st
	}

	next := st.shallow()
	next.Entities = copyEntities(st.Entities)
	next.TypeIndex = copyTypeIndex(st.TypeIndex)
	next.References = copyListMap(st.References)
	next.ReverseRefs = copyStringMap(st.ReverseRefs)
	next.CollectionMembers = copyListMap(st.CollectionMembers)
	next.MemberOfCollections = copyListMap(st.MemberOfCollections)
	next.Extensions = copyExtensions(st.Extensions)
	next.TrashedEntities = copyTrash(st.TrashedEntities)

	index := -1
	if opts.Index != nil {
		index = *opts.Index
	}

	reactivate(next, id, record.Entity.Type, record.Entity)
	if parentID != "" {
		next.References[parentID] = insertID(next.References[parentID], id, index)
		next.ReverseRefs[id] = parentID
	}
	restoreMemberships(next, id, record.MemberOf)

	// Descendant ids taken over by new active entities stay with those
	// entities; the preserved copies are dropped from the restored subtree.
	var reused map[string]struct{}
	if snap := record.Subtree; snap != nil {
		for descID := range snap.Entities {
			if !HasEntity(st, descID) {
				continue
			}
			logger.Warn().Str("id", descID).
				Msg("restore: descendant id re-used while trashed, dropping preserved copy")
			if reused == nil {
				reused = make(map[string]struct{})
			}
			reused[descID] = struct{}{}
		}
	}

	if len(record.ChildIDs) > 0 {
		children := make([]string, 0, len(record.ChildIDs))
		for _, childID := range record.ChildIDs {
			if _, ok := reused[childID]; ok {
				continue
			}
			children = append(children, childID)
			next.ReverseRefs[childID] = id
		}
		if len(children) > 0 {
			next.References[id] = children
		}
	}

	if snap := record.Subtree; snap != nil {
		for descID, e := range snap.Entities {
			if _, ok := reused[descID]; ok {
				continue
			}
			reactivate(next, descID, snap.Types[descID], e)
			if ext, ok := snap.Extensions[descID]; ok {
				next.Extensions[descID] = ext
			}
			restoreMemberships(next, descID, snap.MemberOf[descID])
		}
		// Children of a re-used id come back detached.
		for parent, children := range snap.References {
			if _, ok := reused[parent]; ok {
				continue
			}
			kept := make([]string, 0, len(children))
			for _, childID := range children {
				if _, ok := reused[childID]; ok {
					continue
				}
				kept = append(kept, childID)
				next.ReverseRefs[childID] = parent
			}
			if len(kept) > 0 {
				next.References[parent] = kept
			}
		}
	}

	delete(next.TrashedEntities, id)
	return next
}

// trashHoldsID reports whether id is preserved inside any trash record's
// subtree snapshot. Such ids are reserved: a new entity under one would
// collide with the preserved entity on restore.
func trashHoldsID(st *NormalizedState, id string) bool {
	for _, record := range st.TrashedEntities {
		if record.Subtree == nil {
			continue
		}
		if _, ok := record.Subtree.Entities[id]; ok {
			return true
		}
	}
	return false
}

// reactivate puts an entity back into its bucket and the type index.
func reactivate(st *NormalizedState, id string, t models.EntityType, e *models.Entity) {
	st.Entities[t] = copyBucket(bucket(st, t))
	st.Entities[t][id] = e
	st.TypeIndex[id] = t
}

// restoreMemberships re-establishes collection memberships, skipping
// collections that were themselves deleted while the entity sat in the
// trash.
func restoreMemberships(st *NormalizedState, id string, collections []string) {
	for _, c := range collections {
		if !HasEntity(st, c) {
			logger.Warn().Str("id", id).Str("collection", c).
				Msg("restore: prior collection no longer exists, membership dropped")
			continue
		}
		if containsID(st.CollectionMembers[c], id) {
			continue
		}
		st.CollectionMembers[c] = appendID(st.CollectionMembers[c], id)
		st.MemberOfCollections[id] = appendID(st.MemberOfCollections[id], c)
	}
}

// EmptyTrash permanently destroys every trashed entity. A failing record is
// recorded as an error and does not block the rest of the batch: the
// returned state reflects every successful deletion, deletedCount is the
// number of roots destroyed, and errs carries one error per failed record
// (whose trash entry is kept so the caller can inspect it).
func EmptyTrash(st *NormalizedState) (*NormalizedState, int, []error) {
	ids := GetTrashedIDs(st)
	sort.Strings(ids)

	next := st
	deleted := 0
	var errs []error

	for _, id := range ids {
		record := next.TrashedEntities[id]
		if record == nil || record.Entity == nil {
			errs = append(errs, fmt.Errorf("empty trash: record for %s is corrupted", id))
			continue
		}
		doomed := []string{id}
		if record.Subtree != nil {
			for descID := range record.Subtree.Entities {
				doomed = append(doomed, descID)
			}
		}
		next = eraseAll(next, doomed)
		deleted++
	}
	return next, deleted, errs
}

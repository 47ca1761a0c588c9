package vault

import (
	"evalgo.org/tessella/models"
)

// UpdateEntity returns a new state with the named entity's payload
// shallow-merged with fields. Structural keys (id, type, items, structures,
// annotations) are ignored: the movement layer is the only way to change
// structure.
//
// If the id is missing from the type index but its payload still exists in
// some bucket, the index entry is restored and a diagnostic is logged before
// the update proceeds (stale-index recovery). A completely unknown id is a
// logged no-op.
func UpdateEntity(st *NormalizedState, id string, fields map[string]interface{}) *NormalizedState {
	t, indexed := st.TypeIndex[id]
	if !indexed {
		// Defensive fallback against invariant drift: scan every bucket
		// before giving up. CheckConsistency exists to catch how the index
		// went stale in the first place.
		found := false
		for bt, b := range st.Entities {
			if _, ok := b[id]; ok {
				t, found = bt, true
				break
			}
		}
		if !found {
			logger.Warn().Str("id", id).Msg("update: unknown id, no-op")
			return st
		}
		logger.Warn().Str("id", id).Str("type", string(t)).
			Msg("update: healed stale type index entry")
	}

	existing, ok := bucketLookup(st, t, id)
	if !ok {
		logger.Warn().Str("id", id).Str("type", string(t)).
			Msg("update: id indexed but missing from bucket, no-op")
		return st
	}

	updated := existing.Clone()
	for key, value := range fields {
		switch key {
		case "id", "type", "items", "structures", "annotations":
			logger.Warn().Str("id", id).Str("field", key).
				Msg("update: ignoring structural field")
			continue
		}
		updated.SetField(key, models.CloneValue(value))
	}

	next := st.shallow()
	next.Entities = copyEntities(st.Entities)
	next.Entities[t] = copyBucket(st.Entities[t])
	next.Entities[t][id] = updated
	if !indexed {
		next.TypeIndex = copyTypeIndex(st.TypeIndex)
		next.TypeIndex[id] = t
	}
	return next
}

// AddEntity returns a new state with entity inserted under parentID. The
// entity's child slots are not walked: single insertion creates exactly one
// resource. Pass parentID "" to add an unowned resource (a Collection, or a
// resource that will be linked later).
//
// Type compatibility between parent and child is the caller's
// responsibility; checking it is validation's job, not the vault's.
func AddEntity(st *NormalizedState, entity *models.Entity, parentID string) *NormalizedState {
	if entity == nil || entity.ID == "" {
		logger.Warn().Msg("add: entity without id, no-op")
		return st
	}
	if HasEntity(st, entity.ID) {
		logger.Warn().Str("id", entity.ID).Msg("add: id already active, no-op")
		return st
	}
	if _, trashed := st.TrashedEntities[entity.ID]; trashed {
		logger.Warn().Str("id", entity.ID).Msg("add: id is in the trash, no-op")
		return st
	}
	if trashHoldsID(st, entity.ID) {
		logger.Warn().Str("id", entity.ID).
			Msg("add: id is preserved inside a trash record, no-op")
		return st
	}
	if parentID != "" && !HasEntity(st, parentID) {
		logger.Warn().Str("id", entity.ID).Str("parent", parentID).
			Msg("add: unknown parent, no-op")
		return st
	}

	stored := entity.CloneShallow()
	if entity.Type == models.TypeRange {
		stored.Items = models.CloneEntities(entity.Items)
	}
	if entity.Type == models.TypeAnnotation {
		sanitizeAnnotationBody(stored.Fields)
	}

	// Custom fields go through the same extension capture as normalize.
	var ext map[string]interface{}
	for key, value := range stored.Fields {
		if models.IsPresentationKey(key) {
			continue
		}
		if ext == nil {
			ext = make(map[string]interface{})
		}
		ext[key] = value
	}
	for key := range ext {
		delete(stored.Fields, key)
	}

	next := st.shallow()
	next.Entities = copyEntities(st.Entities)
	t := entity.Type
	next.Entities[t] = copyBucket(bucket(next, t))
	next.Entities[t][entity.ID] = stored
	next.TypeIndex = copyTypeIndex(st.TypeIndex)
	next.TypeIndex[entity.ID] = t
	if ext != nil {
		next.Extensions = copyExtensions(st.Extensions)
		next.Extensions[entity.ID] = ext
	}
	if parentID != "" {
		next.References = copyListMap(st.References)
		next.References[parentID] = appendID(st.References[parentID], entity.ID)
		next.ReverseRefs = copyStringMap(st.ReverseRefs)
		next.ReverseRefs[entity.ID] = parentID
	}
	return next
}

// RemoveOptions controls RemoveEntity.
type RemoveOptions struct {
	// Permanent destroys the entity and its whole subtree instead of
	// moving it to the trash.
	Permanent bool
}

// RemoveEntity removes an entity. By default this is a soft delete
// delegating to MoveToTrash; with Permanent set, the entity and every
// descendant are erased from every index atomically, and RootID is nulled if
// the root itself was removed.
func RemoveEntity(st *NormalizedState, id string, opts RemoveOptions) *NormalizedState {
	if !opts.Permanent {
		return MoveToTrash(st, id)
	}
	if !HasEntity(st, id) {
		if _, trashed := st.TrashedEntities[id]; !trashed {
			logger.Warn().Str("id", id).Msg("remove: unknown id, no-op")
			return st
		}
	}
	doomed := append([]string{id}, GetDescendants(st, id)...)
	return eraseAll(st, doomed)
}

// eraseAll removes every id in doomed from every index of the state. The ids
// must form closed subtrees: descendants are expected to be listed.
func eraseAll(st *NormalizedState, doomed []string) *NormalizedState {
	doomedSet := make(map[string]struct{}, len(doomed))
	for _, id := range doomed {
		doomedSet[id] = struct{}{}
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

	copiedBuckets := make(map[models.EntityType]bool)

	for _, id := range doomed {
		if t, ok := next.TypeIndex[id]; ok {
			if !copiedBuckets[t] {
				next.Entities[t] = copyBucket(next.Entities[t])
				copiedBuckets[t] = true
			}
			delete(next.Entities[t], id)
			delete(next.TypeIndex, id)
		}

		// Detach from the hierarchical indexes.
		if parent, ok := next.ReverseRefs[id]; ok {
			if _, parentDoomed := doomedSet[parent]; !parentDoomed {
				next.References[parent] = removeID(next.References[parent], id)
			}
			delete(next.ReverseRefs, id)
		}
		delete(next.References, id)

		// Detach from the membership indexes, both directions.
		for _, c := range next.MemberOfCollections[id] {
			next.CollectionMembers[c] = removeID(next.CollectionMembers[c], id)
		}
		delete(next.MemberOfCollections, id)
		for _, m := range next.CollectionMembers[id] {
			next.MemberOfCollections[m] = removeID(next.MemberOfCollections[m], id)
		}
		delete(next.CollectionMembers, id)

		delete(next.Extensions, id)
		delete(next.TrashedEntities, id)

		if next.RootID == id {
			next.RootID = ""
		}
	}
	return next
}

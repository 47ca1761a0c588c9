package vault

// MoveEntity returns a new state with id re-parented under newParentID,
// inserted at index. A negative index (or one past the end) appends. The
// vault does not check that the new parent's type can own the moved entity;
// that is validation's job.
//
// Unknown ids and unknown parents are logged no-ops.
func MoveEntity(st *NormalizedState, id, newParentID string, index int) *NormalizedState {
	if !HasEntity(st, id) {
		logger.Warn().Str("id", id).Msg("move: unknown id, no-op")
		return st
	}
	if !HasEntity(st, newParentID) {
		logger.Warn().Str("id", id).Str("parent", newParentID).
			Msg("move: unknown parent, no-op")
		return st
	}

	next := st.shallow()
	next.References = copyListMap(st.References)
	next.ReverseRefs = copyStringMap(st.ReverseRefs)

	if oldParent, ok := st.ReverseRefs[id]; ok && oldParent != "" {
		next.References[oldParent] = removeID(next.References[oldParent], id)
	}
	next.References[newParentID] = insertID(next.References[newParentID], id, index)
	next.ReverseRefs[id] = newParentID
	return next
}

// ReorderChildren returns a new state whose child list for parentID is
// newOrder, verbatim.
//
// The caller must supply a full permutation of the existing children:
// supplying a subset silently drops the omitted ids from the ordering, which
// is a known design risk of this operation.
func ReorderChildren(st *NormalizedState, parentID string, newOrder []string) *NormalizedState {
	if !HasEntity(st, parentID) {
		logger.Warn().Str("parent", parentID).Msg("reorder: unknown parent, no-op")
		return st
	}
	if len(newOrder) != len(st.References[parentID]) {
		logger.Warn().Str("parent", parentID).
			Int("have", len(st.References[parentID])).
			Int("got", len(newOrder)).
			Msg("reorder: order is not a full permutation of the children")
	}

	next := st.shallow()
	next.References = copyListMap(st.References)
	next.References[parentID] = append([]string(nil), newOrder...)
	return next
}

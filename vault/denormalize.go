package vault

import (
	"evalgo.org/tessella/models"
)

// Denormalize reconstructs the nested tree rooted at id from the flat state,
// or returns nil when id is empty or unknown. For any tree the normalizer
// produced, Denormalize(Normalize(tree), tree.ID) is deep-equal to the
// original, custom fields included.
func Denormalize(st *NormalizedState, id string) *models.Entity {
	if st == nil || id == "" {
		return nil
	}
	t, ok := st.TypeIndex[id]
	if !ok {
		logger.Warn().Str("id", id).Msg("denormalize: unknown id")
		return nil
	}

	stored, ok := bucketLookup(st, t, id)
	if !ok {
		logger.Warn().Str("id", id).Str("type", string(t)).
			Msg("denormalize: id indexed but missing from bucket")
		return nil
	}

	node := stored.Clone()

	switch t {
	case models.TypeCollection:
		// Collection items are full nested reconstructions of the
		// referenced members, not shallow references.
		for _, memberID := range st.CollectionMembers[id] {
			if member := Denormalize(st, memberID); member != nil {
				node.Items = append(node.Items, member)
			}
		}

	case models.TypeManifest:
		for _, childID := range st.References[id] {
			switch st.TypeIndex[childID] {
			case models.TypeCanvas:
				if child := Denormalize(st, childID); child != nil {
					node.Items = append(node.Items, child)
				}
			case models.TypeRange:
				if child := Denormalize(st, childID); child != nil {
					node.Structures = append(node.Structures, child)
				}
			}
		}

	case models.TypeCanvas:
		painting, annotating := partitionCanvasPages(st, id)
		for _, pageID := range painting {
			if page := Denormalize(st, pageID); page != nil {
				node.Items = append(node.Items, page)
			}
		}
		// The annotations slot is omitted entirely when empty.
		for _, pageID := range annotating {
			if page := Denormalize(st, pageID); page != nil {
				node.Annotations = append(node.Annotations, page)
			}
		}

	case models.TypeRange:
		// Ranges were stored with their items verbatim; nothing to rebuild.

	case models.TypeAnnotationPage:
		for _, childID := range st.References[id] {
			if st.TypeIndex[childID] != models.TypeAnnotation {
				continue
			}
			if child := Denormalize(st, childID); child != nil {
				node.Items = append(node.Items, child)
			}
		}

	case models.TypeAnnotation:
		// Leaf.

	default:
		// Inert unknown type: stored verbatim, returned verbatim.
		return node
	}

	applyExtensions(st, id, node)
	return node
}

// DenormalizeRoot reconstructs the tree at the state's current root, or nil
// once the root has been removed.
func DenormalizeRoot(st *NormalizedState) *models.Entity {
	if st == nil || st.RootID == "" {
		return nil
	}
	return Denormalize(st, st.RootID)
}

// partitionCanvasPages splits a Canvas's AnnotationPage children into
// painting and non-painting sets by the motivation of the annotations inside
// each page.
//
// Motivation is assumed homogeneous within a page, so checking the first
// annotation is sufficient. That is an explicit performance trade-off for
// the tree shapes this vault manages, not a general-purpose assumption.
func partitionCanvasPages(st *NormalizedState, canvasID string) (painting, annotating []string) {
	for _, childID := range st.References[canvasID] {
		if st.TypeIndex[childID] != models.TypeAnnotationPage {
			continue
		}
		if pageIsPainting(st, childID) {
			painting = append(painting, childID)
		} else {
			annotating = append(annotating, childID)
		}
	}
	return painting, annotating
}

// pageIsPainting inspects the first annotation of a page. Pages without
// annotations default to painting so that empty pages stay in items.
func pageIsPainting(st *NormalizedState, pageID string) bool {
	for _, annoID := range st.References[pageID] {
		if st.TypeIndex[annoID] != models.TypeAnnotation {
			continue
		}
		anno, ok := bucketLookup(st, models.TypeAnnotation, annoID)
		if !ok {
			continue
		}
		return anno.Motivation() == models.MotivationPainting
	}
	return true
}

// applyExtensions merges the preserved non-schema fields back into a
// reconstructed node.
func applyExtensions(st *NormalizedState, id string, node *models.Entity) {
	ext, ok := st.Extensions[id]
	if !ok {
		return
	}
	for key, value := range ext {
		node.SetField(key, models.CloneValue(value))
	}
}

// bucketLookup fetches an entity from its type bucket.
func bucketLookup(st *NormalizedState, t models.EntityType, id string) (*models.Entity, bool) {
	b, ok := st.Entities[t]
	if !ok {
		return nil, false
	}
	e, ok := b[id]
	return e, ok
}

package vault

import (
	"fmt"

	"evalgo.org/tessella/models"
)

// Normalize walks a nested IIIF tree once and produces its flat
// representation, with RootID set to the root's id.
//
// The walk is a recursive pre-order traversal. Collections record their
// items as many-to-many memberships and recurse without a hierarchical
// parent; Manifests own their Canvases and Ranges; Canvases own every
// AnnotationPage from both their items and annotations slots (the
// painting/non-painting distinction is recovered from content at
// denormalize time, not retained structurally); Annotation bodies pass
// through HTML sanitization before storage.
//
// Trees with cycles are undefined behavior: the walk does not cycle-detect.
func Normalize(root *models.Entity) (*NormalizedState, error) {
	if root == nil {
		return nil, fmt.Errorf("normalize: nil root")
	}
	if root.ID == "" {
		return nil, fmt.Errorf("normalize: root has no id")
	}

	st := NewState()
	normalizeNode(st, root, "")
	st.RootID = root.ID
	return st, nil
}

// normalizeNode records one node and recurses into its children. parentID is
// the hierarchical owner, or "" for roots and Collection items.
func normalizeNode(st *NormalizedState, node *models.Entity, parentID string) {
	if node == nil {
		return
	}
	if node.ID == "" {
		logger.Warn().Str("parent", parentID).Msg("skipping entity without id")
		return
	}

	// A resource already normalized through another path (a Manifest listed
	// in two Collections of the same tree) is only linked, never re-walked.
	if _, seen := st.TypeIndex[node.ID]; seen {
		linkParent(st, node.ID, parentID)
		return
	}

	st.TypeIndex[node.ID] = node.Type
	linkParent(st, node.ID, parentID)

	stored := node.CloneShallow()
	extractExtensions(st, node.ID, stored)

	switch node.Type {
	case models.TypeCollection:
		for _, child := range node.Items {
			if child == nil || child.ID == "" {
				continue
			}
			st.CollectionMembers[node.ID] = appendID(st.CollectionMembers[node.ID], child.ID)
			st.MemberOfCollections[child.ID] = appendID(st.MemberOfCollections[child.ID], node.ID)
			// Collections reference, they do not own.
			normalizeNode(st, child, "")
		}

	case models.TypeManifest:
		for _, child := range node.Items {
			normalizeNode(st, child, node.ID)
		}
		for _, child := range node.Structures {
			normalizeNode(st, child, node.ID)
		}

	case models.TypeCanvas:
		// Painting and non-painting pages become ordinary hierarchical
		// children; the split is recomputed from motivation on the way out.
		for _, child := range node.Items {
			normalizeNode(st, child, node.ID)
		}
		for _, child := range node.Annotations {
			normalizeNode(st, child, node.ID)
		}

	case models.TypeRange:
		// Ranges keep their items verbatim: plain canvas references inside
		// a Range are not resources of their own. Nested Ranges are walked
		// so they stay individually addressable.
		stored.Items = models.CloneEntities(node.Items)
		for _, child := range node.Items {
			if child != nil && child.Type == models.TypeRange {
				normalizeNode(st, child, node.ID)
			}
		}

	case models.TypeAnnotationPage:
		for _, child := range node.Items {
			normalizeNode(st, child, node.ID)
		}

	case models.TypeAnnotation:
		sanitizeAnnotationBody(stored.Fields)

	default:
		// Unknown types are stored inertly in a bucket of their own so the
		// tree survives a round trip; the vault never interprets them.
		logger.Warn().Str("id", node.ID).Str("type", string(node.Type)).
			Msg("unrecognized entity type, storing inertly")
		stored = node.Clone()
		delete(st.Extensions, node.ID)
	}

	bucket(st, node.Type)[node.ID] = stored
}

// linkParent appends id to its hierarchical parent's child list and records
// the reverse reference. Duplicate child entries are never created.
func linkParent(st *NormalizedState, id, parentID string) {
	if parentID == "" {
		return
	}
	if containsID(st.References[parentID], id) {
		return
	}
	st.References[parentID] = appendID(st.References[parentID], id)
	st.ReverseRefs[id] = parentID
}

// extractExtensions lifts non-schema fields out of the stored payload into
// the state's extension index so they can be reapplied on reconstruction.
func extractExtensions(st *NormalizedState, id string, stored *models.Entity) {
	if len(stored.Fields) == 0 {
		return
	}
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
	if ext == nil {
		return
	}
	for key := range ext {
		delete(stored.Fields, key)
	}
	st.Extensions[id] = ext
}

// bucket returns the entity bucket for t, allocating one for types outside
// the known six.
func bucket(st *NormalizedState, t models.EntityType) map[string]*models.Entity {
	b, ok := st.Entities[t]
	if !ok {
		b = make(map[string]*models.Entity)
		st.Entities[t] = b
	}
	return b
}

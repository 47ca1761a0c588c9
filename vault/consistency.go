package vault

import (
	"fmt"
)

// ViolationKind categorizes a consistency violation.
type ViolationKind string

const (
	// ViolationStaleIndex is a type-index entry without a bucket record,
	// or a bucket record without a type-index entry.
	ViolationStaleIndex ViolationKind = "stale_index"

	// ViolationDuplicateChild is a child id listed twice under one parent.
	ViolationDuplicateChild ViolationKind = "duplicate_child"

	// ViolationDanglingReference is a reference to an id that is neither
	// active nor consistent with its reverse reference.
	ViolationDanglingReference ViolationKind = "dangling_reference"

	// ViolationAsymmetricMembership is a collection membership recorded in
	// only one direction.
	ViolationAsymmetricMembership ViolationKind = "asymmetric_membership"

	// ViolationTrashedAndActive is an id present both in a bucket and in
	// the trash.
	ViolationTrashedAndActive ViolationKind = "trashed_and_active"
)

// Violation describes one invariant breach found in a state.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	ID      string        `json:"id"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Kind, v.Message, v.ID)
}

// CheckConsistency audits a state against the structural invariants and
// reports every breach it finds. It is a debugging aid: it never repairs
// anything. A healthy state returns nil.
//
// The mutation layer is supposed to be the only writer of these indexes, so
// any violation reported here points at a caller mutating shared state in
// place.
func CheckConsistency(st *NormalizedState) []Violation {
	var out []Violation

	// Every indexed id must sit in exactly its bucket, and vice versa.
	for id, t := range st.TypeIndex {
		if _, ok := bucketLookup(st, t, id); !ok {
			out = append(out, Violation{
				Kind:    ViolationStaleIndex,
				ID:      id,
				Message: fmt.Sprintf("indexed as %s but missing from bucket", t),
			})
		}
	}
	for t, b := range st.Entities {
		for id := range b {
			indexed, ok := st.TypeIndex[id]
			if !ok {
				out = append(out, Violation{
					Kind:    ViolationStaleIndex,
					ID:      id,
					Message: fmt.Sprintf("stored in %s bucket but absent from type index", t),
				})
			} else if indexed != t {
				out = append(out, Violation{
					Kind:    ViolationStaleIndex,
					ID:      id,
					Message: fmt.Sprintf("stored in %s bucket but indexed as %s", t, indexed),
				})
			}
			if _, trashed := st.TrashedEntities[id]; trashed {
				out = append(out, Violation{
					Kind:    ViolationTrashedAndActive,
					ID:      id,
					Message: "active and trashed at the same time",
				})
			}
		}
	}

	// Child lists must be duplicate-free and agree with the reverse index.
	for parent, children := range st.References {
		seen := make(map[string]struct{}, len(children))
		for _, child := range children {
			if _, dup := seen[child]; dup {
				out = append(out, Violation{
					Kind:    ViolationDuplicateChild,
					ID:      child,
					Message: fmt.Sprintf("listed more than once under %s", parent),
				})
			}
			seen[child] = struct{}{}
			if st.ReverseRefs[child] != parent {
				out = append(out, Violation{
					Kind:    ViolationDanglingReference,
					ID:      child,
					Message: fmt.Sprintf("child of %s but reverse reference says %q", parent, st.ReverseRefs[child]),
				})
			}
		}
	}

	// Membership must be symmetric in both directions.
	for c, members := range st.CollectionMembers {
		for _, m := range members {
			if !containsID(st.MemberOfCollections[m], c) {
				out = append(out, Violation{
					Kind:    ViolationAsymmetricMembership,
					ID:      m,
					Message: fmt.Sprintf("member of %s without reverse entry", c),
				})
			}
		}
	}
	for m, collections := range st.MemberOfCollections {
		for _, c := range collections {
			if !containsID(st.CollectionMembers[c], m) {
				out = append(out, Violation{
					Kind:    ViolationAsymmetricMembership,
					ID:      m,
					Message: fmt.Sprintf("claims membership of %s without forward entry", c),
				})
			}
		}
	}

	return out
}

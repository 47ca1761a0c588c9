package vault

import (
	"fmt"

	"evalgo.org/tessella/models"
)

// Listener receives the new state after every committed operation.
type Listener func(st *NormalizedState)

// Vault is the stateful facade over the pure layers. It holds exactly one
// NormalizedState plus the change listeners, applies every operation as an
// atomic replace-and-notify, and exposes snapshot/restore for undo-redo.
//
// Vault is not thread-safe by design: it assumes cooperative single-actor
// mutation (spec: one logical owner per instance). Concurrent callers must
// serialize externally.
type Vault struct {
	state     *NormalizedState
	listeners map[int]Listener
	nextToken int
}

// New returns a Vault holding an empty state.
func New() *Vault {
	return &Vault{
		state:     NewState(),
		listeners: make(map[int]Listener),
	}
}

// Load normalizes a nested tree and replaces the held state with the result.
func (v *Vault) Load(tree *models.Entity) error {
	st, err := Normalize(tree)
	if err != nil {
		return fmt.Errorf("vault: load: %w", err)
	}
	v.commit(st)
	return nil
}

// Reload is Load under the name external collaborators call after editing an
// exported tree: the vault does not auto-detect external edits, so the
// validation engine (or any other consumer that rewrites a tree) must hand
// the result back through Reload to resynchronize.
func (v *Vault) Reload(tree *models.Entity) error {
	return v.Load(tree)
}

// Export denormalizes the tree at the current root, or nil once the root has
// been removed. Callers must not mutate the returned entities in place; they
// may be shared across snapshots.
func (v *Vault) Export() *models.Entity {
	return DenormalizeRoot(v.state)
}

// Denormalize reconstructs the subtree at any id.
func (v *Vault) Denormalize(id string) *models.Entity {
	return Denormalize(v.state, id)
}

// State returns the current immutable state snapshot for use with the query
// layer.
func (v *Vault) State() *NormalizedState {
	return v.state
}

// Update applies a partial payload update to one entity.
func (v *Vault) Update(id string, fields map[string]interface{}) {
	v.commit(UpdateEntity(v.state, id, fields))
}

// Add inserts a single entity under parentID.
func (v *Vault) Add(entity *models.Entity, parentID string) {
	v.commit(AddEntity(v.state, entity, parentID))
}

// Remove removes an entity: soft delete by default, permanent with
// opts.Permanent.
func (v *Vault) Remove(id string, opts RemoveOptions) {
	v.commit(RemoveEntity(v.state, id, opts))
}

// MoveToTrash soft-deletes an entity and its subtree.
func (v *Vault) MoveToTrash(id string) {
	v.commit(MoveToTrash(v.state, id))
}

// RestoreFromTrash brings a trashed entity back.
func (v *Vault) RestoreFromTrash(id string, opts RestoreOptions) {
	v.commit(RestoreFromTrash(v.state, id, opts))
}

// EmptyTrash permanently destroys all trashed entities and returns how many
// were deleted along with per-record errors.
func (v *Vault) EmptyTrash() (int, []error) {
	st, deleted, errs := EmptyTrash(v.state)
	v.commit(st)
	return deleted, errs
}

// Move re-parents an entity. A negative index appends.
func (v *Vault) Move(id, newParentID string, index int) {
	v.commit(MoveEntity(v.state, id, newParentID, index))
}

// Reorder replaces a parent's child order.
func (v *Vault) Reorder(parentID string, newOrder []string) {
	v.commit(ReorderChildren(v.state, parentID, newOrder))
}

// AddToCollection records a collection membership.
func (v *Vault) AddToCollection(collectionID, id string) {
	v.commit(AddToCollection(v.state, collectionID, id))
}

// RemoveFromCollection drops a collection membership.
func (v *Vault) RemoveFromCollection(collectionID, id string) {
	v.commit(RemoveFromCollection(v.state, collectionID, id))
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners are called synchronously, once per committed operation, with no
// batching or coalescing.
func (v *Vault) Subscribe(l Listener) (unsubscribe func()) {
	token := v.nextToken
	v.nextToken++
	v.listeners[token] = l
	return func() {
		delete(v.listeners, token)
	}
}

// Snapshot captures the current state. Because mutations never touch held
// states, this is a reference capture, not a copy.
func (v *Vault) Snapshot() *NormalizedState {
	return v.state
}

// Restore replaces the held state with a previously captured snapshot and
// notifies subscribers. A nil snapshot is a logged no-op.
func (v *Vault) Restore(st *NormalizedState) {
	if st == nil {
		logger.Warn().Msg("vault: restore of nil snapshot, no-op")
		return
	}
	v.commit(st)
}

// commit replaces the held state and notifies every subscriber exactly once.
func (v *Vault) commit(st *NormalizedState) {
	v.state = st
	for _, l := range v.listeners {
		l(st)
	}
}

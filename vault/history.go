package vault

// History layers bounded undo/redo stacks over the vault's cheap snapshots.
// It stores state references only, so a deep edit history costs one pointer
// per step.
//
// Typical wiring records a snapshot before every user-visible operation:
//
//	h := vault.NewHistory(v, 100)
//	h.Push()
//	v.MoveToTrash(id)
//	...
//	h.Undo()
//
// History shares the vault's single-actor discipline.
type History struct {
	vault *Vault
	limit int
	undo  []*NormalizedState
	redo  []*NormalizedState
}

// NewHistory returns a history over v keeping at most limit undo steps.
// A non-positive limit defaults to 50.
func NewHistory(v *Vault, limit int) *History {
	if limit <= 0 {
		limit = 50
	}
	return &History{vault: v, limit: limit}
}

// Push records the current state as an undo point and clears the redo stack.
func (h *History) Push() {
	h.undo = append(h.undo, h.vault.Snapshot())
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo restores the most recent undo point, pushing the current state onto
// the redo stack. Calling it with nothing to undo is a no-op.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, h.vault.Snapshot())
	h.vault.Restore(last)
	return true
}

// Redo re-applies the most recently undone state.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, h.vault.Snapshot())
	h.vault.Restore(last)
	return true
}

// Len returns the current undo depth.
func (h *History) Len() int { return len(h.undo) }

package api

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// UpdateEntityRequest carries a partial payload update. Structural keys
// (id, type, items, structures, annotations) are ignored by the vault.
type UpdateEntityRequest struct {
	Fields map[string]interface{} `json:"fields" validate:"required"`
}

// MoveEntityRequest re-parents an entity. A negative index appends.
type MoveEntityRequest struct {
	ParentID string `json:"parent_id" validate:"required"`
	Index    int    `json:"index"`
}

// ReorderRequest replaces a parent's child order.
type ReorderRequest struct {
	Order []string `json:"order" validate:"required,min=1"`
}

// AddMemberRequest adds a manifest or collection to a collection.
type AddMemberRequest struct {
	MemberID string `json:"member_id" validate:"required"`
}

// RestoreRequest restores a trashed entity. ParentID defaults to the
// original parent; an omitted or negative index appends.
type RestoreRequest struct {
	ParentID string `json:"parent_id"`
	Index    *int   `json:"index"`
}

// EntityResponse is the envelope for a single normalized entity.
type EntityResponse struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	ParentID string                 `json:"parent_id,omitempty"`
	Children []string               `json:"children,omitempty"`
	Fields   map[string]interface{} `json:"fields,omitempty"`
}

// TrashRecordResponse describes one trash record.
type TrashRecordResponse struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	OriginalParentID string `json:"original_parent_id,omitempty"`
	TrashedAt        string `json:"trashed_at"`
	SubtreeSize      int    `json:"subtree_size"`
}

// EmptyTrashResponse reports the outcome of emptying the trash.
type EmptyTrashResponse struct {
	Deleted int      `json:"deleted"`
	Errors  []string `json:"errors,omitempty"`
}

// StatsResponse summarizes the vault contents.
type StatsResponse struct {
	RootID        string         `json:"root_id,omitempty"`
	TotalEntities int            `json:"total_entities"`
	CountsByType  map[string]int `json:"counts_by_type"`
	TrashedCount  int            `json:"trashed_count"`
	CanUndo       bool           `json:"can_undo"`
	CanRedo       bool           `json:"can_redo"`
}

// ConsistencyResponse reports audit findings without repairing them.
type ConsistencyResponse struct {
	Consistent bool     `json:"consistent"`
	Violations []string `json:"violations,omitempty"`
}

// HistoryResponse reports the result of an undo or redo.
type HistoryResponse struct {
	Applied bool `json:"applied"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

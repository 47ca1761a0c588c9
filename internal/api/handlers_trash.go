package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"evalgo.org/tessella/vault"
)

// listTrash handles GET /api/v1/trash
func (s *Server) listTrash(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	out := []TrashRecordResponse{}
	for _, id := range vault.GetTrashedIDs(st) {
		record := vault.GetTrashedEntity(st, id)
		if record == nil || record.Entity == nil {
			continue
		}
		subtreeSize := 0
		if record.Subtree != nil {
			subtreeSize = len(record.Subtree.Entities)
		}
		out = append(out, TrashRecordResponse{
			ID:               id,
			Type:             string(record.Entity.Type),
			OriginalParentID: record.OriginalParentID,
			TrashedAt:        record.TrashedAt.Format(time.RFC3339),
			SubtreeSize:      subtreeSize,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// restoreFromTrash handles POST /api/v1/trash/:id/restore
func (s *Server) restoreFromTrash(c echo.Context) error {
	var req RestoreRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request", err)
	}

	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if vault.GetTrashedEntity(s.vault.State(), id) == nil {
		return notFound(c, "entity not in trash")
	}

	s.history.Push()
	s.vault.RestoreFromTrash(id, vault.RestoreOptions{
		ParentID: req.ParentID,
		Index:    req.Index,
	})

	st := s.vault.State()
	if !vault.HasEntity(st, id) {
		// Restore declined (target parent missing, id re-used, ...).
		return badRequest(c, "entity could not be restored", nil)
	}
	return c.JSON(http.StatusOK, entityResponse(st, vault.GetEntity(st, id)))
}

// emptyTrash handles DELETE /api/v1/trash
func (s *Server) emptyTrash(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Push()
	deleted, errs := s.vault.EmptyTrash()

	resp := EmptyTrashResponse{Deleted: deleted}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
	}
	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, resp)
}

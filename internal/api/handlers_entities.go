package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/tessella/models"
	"evalgo.org/tessella/vault"
)

func entityResponse(st *vault.NormalizedState, e *models.Entity) EntityResponse {
	return EntityResponse{
		ID:       e.ID,
		Type:     string(e.Type),
		ParentID: vault.GetParentID(st, e.ID),
		Children: vault.GetChildIDs(st, e.ID),
		Fields:   e.Fields,
	}
}

// listEntities handles GET /api/v1/entities
//
// Query parameters:
//   - type: filter by entity type (Collection, Manifest, Canvas, ...)
func (s *Server) listEntities(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	var out []EntityResponse
	if typeParam := c.QueryParam("type"); typeParam != "" {
		t, ok := models.ParseEntityType(typeParam)
		if !ok {
			// Unknown types are stored inertly, so look them up as-is.
			t = models.EntityType(typeParam)
		}
		for _, e := range vault.GetEntitiesByType(st, t) {
			out = append(out, entityResponse(st, e))
		}
	} else {
		for _, id := range vault.GetAllEntityIDs(st) {
			if e := vault.GetEntity(st, id); e != nil {
				out = append(out, entityResponse(st, e))
			}
		}
	}

	return c.JSON(http.StatusOK, out)
}

// createEntity handles POST /api/v1/entities
//
// Query parameters:
//   - parent: id of the hierarchical parent ("" makes a detached entity)
//
// Entities submitted without an id are assigned a urn:uuid id; ids are
// otherwise caller-controlled and minted at this boundary only.
func (s *Server) createEntity(c echo.Context) error {
	var entity models.Entity
	if err := c.Bind(&entity); err != nil {
		return badRequest(c, "invalid entity", err)
	}
	if entity.ID == "" {
		entity.ID = models.GenerateID()
	}
	if entity.Type == "" {
		return badRequest(c, "entity type is required", nil)
	}

	parentID := c.QueryParam("parent")

	s.mu.Lock()
	defer s.mu.Unlock()

	if vault.HasEntity(s.vault.State(), entity.ID) {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "entity already exists"})
	}
	if parentID != "" && !vault.HasEntity(s.vault.State(), parentID) {
		return notFound(c, "parent entity not found")
	}

	s.history.Push()
	s.vault.Add(&entity, parentID)

	st := s.vault.State()
	e := vault.GetEntity(st, entity.ID)
	if e == nil {
		// The vault declined the insert (trashed id collision etc).
		return badRequest(c, "entity was not added", nil)
	}
	return c.JSON(http.StatusCreated, entityResponse(st, e))
}

// getEntity handles GET /api/v1/entities/:id
func (s *Server) getEntity(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	e := vault.GetEntity(st, c.Param("id"))
	if e == nil {
		return notFound(c, "entity not found")
	}
	return c.JSON(http.StatusOK, entityResponse(st, e))
}

// updateEntity handles PATCH /api/v1/entities/:id
func (s *Server) updateEntity(c echo.Context) error {
	var req UpdateEntityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request", err)
	}
	if err := s.validate.Struct(&req); err != nil {
		return badRequest(c, "validation failed", err)
	}

	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if !vault.HasEntity(s.vault.State(), id) {
		return notFound(c, "entity not found")
	}

	s.history.Push()
	s.vault.Update(id, req.Fields)

	st := s.vault.State()
	return c.JSON(http.StatusOK, entityResponse(st, vault.GetEntity(st, id)))
}

// deleteEntity handles DELETE /api/v1/entities/:id
//
// Query parameters:
//   - permanent: "true" bypasses the trash and destroys the subtree
func (s *Server) deleteEntity(c echo.Context) error {
	id := c.Param("id")
	permanent := c.QueryParam("permanent") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !vault.HasEntity(s.vault.State(), id) {
		return notFound(c, "entity not found")
	}

	s.history.Push()
	s.vault.Remove(id, vault.RemoveOptions{Permanent: permanent})

	if permanent {
		return c.JSON(http.StatusOK, MessageResponse{Message: "entity permanently deleted"})
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "entity moved to trash"})
}

// getEntityTree handles GET /api/v1/entities/:id/tree
//
// Returns the denormalized nested subtree rooted at the entity.
func (s *Server) getEntityTree(c echo.Context) error {
	s.mu.Lock()
	tree := s.vault.Denormalize(c.Param("id"))
	s.mu.Unlock()

	if tree == nil {
		return notFound(c, "entity not found")
	}
	return c.JSON(http.StatusOK, tree)
}

// getAncestors handles GET /api/v1/entities/:id/ancestors
func (s *Server) getAncestors(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	id := c.Param("id")
	if !vault.HasEntity(st, id) {
		return notFound(c, "entity not found")
	}
	ancestors := vault.GetAncestors(st, id)
	if ancestors == nil {
		ancestors = []string{}
	}
	return c.JSON(http.StatusOK, ancestors)
}

// getDescendants handles GET /api/v1/entities/:id/descendants
func (s *Server) getDescendants(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	id := c.Param("id")
	if !vault.HasEntity(st, id) {
		return notFound(c, "entity not found")
	}
	descendants := vault.GetDescendants(st, id)
	if descendants == nil {
		descendants = []string{}
	}
	return c.JSON(http.StatusOK, descendants)
}

// moveEntity handles POST /api/v1/entities/:id/move
func (s *Server) moveEntity(c echo.Context) error {
	var req MoveEntityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request", err)
	}
	if err := s.validate.Struct(&req); err != nil {
		return badRequest(c, "validation failed", err)
	}

	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	if !vault.HasEntity(st, id) {
		return notFound(c, "entity not found")
	}
	if !vault.HasEntity(st, req.ParentID) {
		return notFound(c, "target parent not found")
	}

	s.history.Push()
	s.vault.Move(id, req.ParentID, req.Index)

	return c.JSON(http.StatusOK, MessageResponse{Message: "entity moved"})
}

// reorderChildren handles PUT /api/v1/entities/:id/children
func (s *Server) reorderChildren(c echo.Context) error {
	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request", err)
	}
	if err := s.validate.Struct(&req); err != nil {
		return badRequest(c, "validation failed", err)
	}

	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if !vault.HasEntity(s.vault.State(), id) {
		return notFound(c, "entity not found")
	}

	s.history.Push()
	s.vault.Reorder(id, req.Order)

	return c.JSON(http.StatusOK, MessageResponse{Message: "children reordered"})
}

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/tessella/models"
	"evalgo.org/tessella/vault"
)

// listMembers handles GET /api/v1/collections/:id/members
func (s *Server) listMembers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	id := c.Param("id")
	if t, ok := vault.GetEntityType(st, id); !ok || t != models.TypeCollection {
		return notFound(c, "collection not found")
	}

	members := vault.GetCollectionMembers(st, id)
	if members == nil {
		members = []string{}
	}
	return c.JSON(http.StatusOK, members)
}

// addMember handles POST /api/v1/collections/:id/members
func (s *Server) addMember(c echo.Context) error {
	var req AddMemberRequest
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

	if t, ok := vault.GetEntityType(st, id); !ok || t != models.TypeCollection {
		return notFound(c, "collection not found")
	}
	if !vault.HasEntity(st, req.MemberID) {
		return notFound(c, "member entity not found")
	}

	s.history.Push()
	s.vault.AddToCollection(id, req.MemberID)

	return c.JSON(http.StatusCreated, MessageResponse{Message: "member added"})
}

// removeMember handles DELETE /api/v1/collections/:id/members/:memberId
func (s *Server) removeMember(c echo.Context) error {
	id := c.Param("id")
	memberID := c.Param("memberId")

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	if t, ok := vault.GetEntityType(st, id); !ok || t != models.TypeCollection {
		return notFound(c, "collection not found")
	}
	if !vault.ContainsMember(st, id, memberID) {
		return notFound(c, "membership not found")
	}

	s.history.Push()
	s.vault.RemoveFromCollection(id, memberID)

	return c.JSON(http.StatusOK, MessageResponse{Message: "member removed"})
}

// listOrphanManifests handles GET /api/v1/manifests/orphans
//
// Orphan manifests are active manifests referenced by no collection; they
// are the candidates for cleanup passes.
func (s *Server) listOrphanManifests(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orphans := vault.GetOrphanManifests(s.vault.State())
	if orphans == nil {
		orphans = []string{}
	}
	return c.JSON(http.StatusOK, orphans)
}

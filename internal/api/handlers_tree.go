package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/tessella/models"
	"evalgo.org/tessella/vault"
)

// loadTree handles POST /api/v1/tree
//
// The request body is a nested IIIF Presentation document. Loading replaces
// the entire vault state; external collaborators that rewrite an exported
// tree resynchronize through this endpoint.
func (s *Server) loadTree(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest(c, "failed to read request body", err)
	}

	if s.config.Vault.ValidateOnLoad {
		if err := s.jsonld.Validate(raw); err != nil {
			return badRequest(c, "document is not valid JSON-LD", err)
		}
	}

	var tree models.Entity
	if err := json.Unmarshal(raw, &tree); err != nil {
		return badRequest(c, "invalid document", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history.Push()
	if err := s.vault.Load(&tree); err != nil {
		return badRequest(c, "failed to load document", err)
	}

	st := s.vault.State()
	s.log.Info().
		Str("root_id", st.RootID).
		Int("entities", vault.GetTotalEntityCount(st)).
		Msg("document loaded")

	return c.JSON(http.StatusCreated, MessageResponse{Message: "document loaded"})
}

// exportTree handles GET /api/v1/tree
func (s *Server) exportTree(c echo.Context) error {
	s.mu.Lock()
	tree := s.vault.Export()
	s.mu.Unlock()

	if tree == nil {
		return notFound(c, "no document loaded")
	}
	return c.JSON(http.StatusOK, tree)
}

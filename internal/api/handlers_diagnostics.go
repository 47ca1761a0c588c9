package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/tessella/models"
	"evalgo.org/tessella/vault"
)

// getStats handles GET /api/v1/stats
func (s *Server) getStats(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.vault.State()

	counts := make(map[string]int)
	for _, t := range models.EntityTypes {
		if n := vault.GetEntityCount(st, t); n > 0 {
			counts[string(t)] = n
		}
	}

	return c.JSON(http.StatusOK, StatsResponse{
		RootID:        vault.GetRootID(st),
		TotalEntities: vault.GetTotalEntityCount(st),
		CountsByType:  counts,
		TrashedCount:  len(vault.GetTrashedIDs(st)),
		CanUndo:       s.history.CanUndo(),
		CanRedo:       s.history.CanRedo(),
	})
}

// checkConsistency handles GET /api/v1/consistency
//
// Runs the full index audit and reports violations without repairing them.
func (s *Server) checkConsistency(c echo.Context) error {
	s.mu.Lock()
	violations := vault.CheckConsistency(s.vault.State())
	s.mu.Unlock()

	resp := ConsistencyResponse{Consistent: len(violations) == 0}
	for _, v := range violations {
		resp.Violations = append(resp.Violations, v.String())
	}
	return c.JSON(http.StatusOK, resp)
}

// undo handles POST /api/v1/history/undo
func (s *Server) undo(c echo.Context) error {
	s.mu.Lock()
	applied := s.history.Undo()
	resp := HistoryResponse{
		Applied: applied,
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, resp)
}

// redo handles POST /api/v1/history/redo
func (s *Server) redo(c echo.Context) error {
	s.mu.Lock()
	applied := s.history.Redo()
	resp := HistoryResponse{
		Applied: applied,
		CanUndo: s.history.CanUndo(),
		CanRedo: s.history.CanRedo(),
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, resp)
}

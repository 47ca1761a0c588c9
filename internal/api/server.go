// Package api provides the HTTP collaborator surface over one Vault
// instance: the exporter, the search indexer and the UI all talk to the
// vault through these endpoints, and the change feed pushes every state
// transition to WebSocket subscribers.
//
// The vault itself is single-actor by design, so the server owns it
// exclusively and serializes every operation behind a mutex.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"evalgo.org/tessella/internal/config"
	"evalgo.org/tessella/internal/jsonld"
	"evalgo.org/tessella/vault"
)

// Server represents the Tessella API server.
type Server struct {
	echo     *echo.Echo
	vault    *vault.Vault
	history  *vault.History
	config   *config.Config
	hub      *Hub
	validate *validator.Validate
	jsonld   *jsonld.Processor
	log      zerolog.Logger

	// mu serializes vault access: the vault assumes one logical owner, the
	// HTTP layer is that owner.
	mu sync.Mutex
}

// New creates a new API server instance owning v.
func New(cfg *config.Config, v *vault.Vault, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	server := &Server{
		echo:     e,
		vault:    v,
		history:  vault.NewHistory(v, cfg.Vault.HistoryLimit),
		config:   cfg,
		hub:      NewHub(log),
		validate: validator.New(),
		jsonld:   jsonld.New(),
		log:      log,
	}

	// Every committed vault transition becomes one change-feed event.
	v.Subscribe(func(st *vault.NormalizedState) {
		server.hub.Broadcast(ChangeEvent{
			RootID:        st.RootID,
			TotalEntities: vault.GetTotalEntityCount(st),
			TrashedCount:  len(st.TrashedEntities),
		})
	})

	go server.hub.Run()

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${time_rfc3339}] ${status} ${method} ${uri} (${latency_human})\n",
	}))
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(s.config.Security.RateLimit)),
		}))
	}

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	v1 := s.echo.Group("/api/v1")

	// Tree load/export
	v1.POST("/tree", s.loadTree)
	v1.GET("/tree", s.exportTree)

	// Entity routes
	entities := v1.Group("/entities")
	entities.GET("", s.listEntities)
	entities.POST("", s.createEntity)
	entities.GET("/:id", s.getEntity)
	entities.PATCH("/:id", s.updateEntity)
	entities.DELETE("/:id", s.deleteEntity)
	entities.GET("/:id/tree", s.getEntityTree)
	entities.GET("/:id/ancestors", s.getAncestors)
	entities.GET("/:id/descendants", s.getDescendants)
	entities.POST("/:id/move", s.moveEntity)
	entities.PUT("/:id/children", s.reorderChildren)

	// Collection membership routes
	collections := v1.Group("/collections/:id/members")
	collections.GET("", s.listMembers)
	collections.POST("", s.addMember)
	collections.DELETE("/:memberId", s.removeMember)
	v1.GET("/manifests/orphans", s.listOrphanManifests)

	// Trash routes
	trash := v1.Group("/trash")
	trash.GET("", s.listTrash)
	trash.POST("/:id/restore", s.restoreFromTrash)
	trash.DELETE("", s.emptyTrash)

	// History routes
	v1.POST("/history/undo", s.undo)
	v1.POST("/history/redo", s.redo)

	// Diagnostics
	v1.GET("/stats", s.getStats)
	v1.GET("/consistency", s.checkConsistency)

	// WebSocket change feed
	ws := v1.Group("/ws")
	ws.GET("/changes", s.handleWebSocket)
	ws.GET("/stats", s.getWebSocketStats)
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// Echo exposes the underlying Echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// healthCheck handles GET /health
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Package api exposes the profiling engine as a stateless machine API.
// Unlike the snapshot server it stores nothing: callers post records
// inline and get the result back in the same round trip.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabprep/app"
	"tabprep/internal/config"
	"tabprep/internal/errors"
	"tabprep/internal/logging"
)

// Server hosts the v1 machine API on its own port.
type Server struct {
	router   *gin.Engine
	profiles *app.ProfileService
	prep     *app.PrepService
	cfg      config.APIConfig
	log      *logging.Logger
}

// NewServer creates the API server and registers its routes
func NewServer(cfg config.APIConfig, profiles *app.ProfileService, prep *app.PrepService, log *logging.Logger) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	s := &Server{
		router:   gin.Default(),
		profiles: profiles,
		prep:     prep,
		cfg:      cfg,
		log:      log.WithComponent("api"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the v1 routes. Health stays open; everything
// else sits behind the API key check.
func (s *Server) setupRoutes() {
	v1 := s.router.Group("/v1")
	v1.GET("/health", s.handleHealth)

	guarded := v1.Group("", s.requireAPIKey())
	guarded.POST("/analyze", s.handleAnalyze)
	guarded.POST("/preprocess", s.handlePreprocess)
}

// requireAPIKey rejects requests whose X-API-Key header does not match
// the configured key. An empty configured key disables the check.
func (s *Server) requireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.Key != "" && c.GetHeader("X-API-Key") != s.cfg.Key {
			s.fail(c, errors.Unauthorized("invalid API key"))
			return
		}
		c.Next()
	}
}

// Handler exposes the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the API server until the listener fails
func (s *Server) Start() error {
	addr := ":" + s.cfg.Port
	s.log.Info("machine API listening on %s", addr)
	return s.router.Run(addr)
}

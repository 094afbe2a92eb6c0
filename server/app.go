// Package server hosts the browser-facing HTTP surface: dataset upload
// and profiling, snapshot listing, preprocessing, report rendering and
// CSV export. Heavy analysis work is bounded by a weighted semaphore so
// a burst of uploads cannot saturate the process.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"tabprep/app"
	"tabprep/internal/config"
	"tabprep/internal/logging"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	profiles *app.ProfileService
	prep     *app.PrepService
	sem      *semaphore.Weighted
	cfg      config.ServerConfig
	log      *logging.Logger
}

// Upload cap applied when MAX_UPLOAD_BYTES is not configured.
const defaultMaxUploadBytes = 32 << 20

// NewApp creates the HTTP application and wires its routes
func NewApp(cfg config.ServerConfig, profiles *app.ProfileService, prep *app.PrepService, log *logging.Logger) *App {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if cfg.MaxUploadBytes < 1 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	a := &App{
		router:   chi.NewRouter(),
		profiles: profiles,
		prep:     prep,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		cfg:      cfg,
		log:      log.WithComponent("server"),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api/datasets", func(r chi.Router) {
		r.Post("/", a.handleUpload)
		r.Get("/", a.handleList)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.handleGet)
			r.Delete("/", a.handleDelete)
			r.Post("/analyze", a.handleReanalyze)
			r.Post("/preprocess", a.handlePreprocess)
			r.Get("/report", a.handleReport)
			r.Get("/export", a.handleExport)
		})
	})
}

// Handler exposes the router for tests and embedding
func (a *App) Handler() http.Handler {
	return a.router
}

// Start runs the HTTP server until ctx is canceled, then drains it
// within the configured shutdown timeout.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + a.cfg.Port,
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Package server exposes the header database over HTTP: a JSON API for
// browsing, editing and importing, and websocket streams of the live views.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classdumper/internal/config"
	"classdumper/internal/dumper"
	"classdumper/internal/live"
)

// Server is the HTTP front end of a dumper.Service.
type Server struct {
	svc          *dumper.Service
	reader       dumper.Reader
	logger       dumper.Logger
	cfg          config.ServerConfig
	defaultScope live.Scope
	cache        *fileCache
	router       chi.Router
}

// New creates a Server for svc. defaultScope applies to file listings that
// name a folder without an explicit scope.
func New(svc *dumper.Service, cfg config.ServerConfig, defaultScope live.Scope, logger dumper.Logger) *Server {
	if logger == nil {
		logger = dumper.NewNopLogger()
	}
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultServerAddr
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		cfg.ShutdownTimeoutSeconds = config.DefaultShutdownTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = config.DefaultCacheSize
	}
	if cfg.CacheTTLSeconds <= 0 {
		cfg.CacheTTLSeconds = config.DefaultCacheTTL
	}

	s := &Server{
		svc:          svc,
		reader:       svc.Reader(),
		logger:       logger,
		cfg:          cfg,
		defaultScope: defaultScope,
	}
	s.cache = newFileCache(s.reader, cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(metricsMiddleware)

	r.Get("/health/live", s.healthLive)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/folders", s.listFolders)
		r.Delete("/folders/{folder}", s.deleteFolder)

		r.Get("/files", s.listFiles)
		r.Delete("/files", s.resetFiles)
		r.Get("/files/{id}", s.getFile)
		r.Patch("/files/{id}", s.editFile)

		r.Post("/imports", s.runImport)

		r.Route("/live", func(r chi.Router) {
			r.Get("/folders", s.streamFolders)
			r.Get("/files", s.streamFiles)
			r.Get("/files/{id}", s.streamFile)
			r.Get("/reloads", s.streamReloads)
		})
	})

	return r
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", "addr", ln.Addr().String())
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

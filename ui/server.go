package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pvsynergy/internal/logging"
	"pvsynergy/ports"

	"github.com/gin-gonic/gin"
)

// Server is the read-only results browser over one output directory
type Server struct {
	router *gin.Engine
	reader ports.ReaderPort
}

// NewServer creates a results browser. mode is a gin mode ("debug",
// "release", "test"); empty keeps gin's default.
func NewServer(reader ports.ReaderPort, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	s := &Server{
		router: gin.New(),
		reader: reader,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger())
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/report", s.handleReport)

	api := s.router.Group("/api")
	api.GET("/runs/latest", s.handleLatestRun)
	api.GET("/stages", s.handleStages)
	api.GET("/stages/:stage/records", s.handleStageRecords)
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Component("ui").WithField("addr", addr).Info("results browser listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.Component("ui").Info("shutting down results browser")
		return srv.Shutdown(shutdownCtx)
	}
}

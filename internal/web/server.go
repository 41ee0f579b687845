// Package web serves the kiosk-local HTTP surface: detector ingest, frame
// push, controller status and the SSE feedback stream for the kiosk screen.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/attendance-kiosk/internal/camera"
	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/feedback"
	"github.com/kozaktomas/attendance-kiosk/internal/scan"
	"github.com/kozaktomas/attendance-kiosk/internal/web/handlers"
	"github.com/kozaktomas/attendance-kiosk/internal/web/middleware"
)

// Deps are the kiosk components exposed over HTTP.
type Deps struct {
	Detections  chan<- scan.Detection
	Frames      *camera.Latest // nil when frames come from a camera snapshot URL
	Status      handlers.StatusProvider
	Log         handlers.LogProvider
	Broadcaster *feedback.Broadcaster
}

// Server represents the web server
type Server struct {
	config     *config.Config
	deps       Deps
	router     *chi.Mux
	httpServer *http.Server

	// streams is the base context of every request; cancelled on shutdown
	// so open SSE streams end.
	streams     context.Context
	stopStreams context.CancelFunc
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, deps Deps) *Server {
	r := chi.NewRouter()

	streams, stopStreams := context.WithCancel(context.Background())
	s := &Server{
		config:      cfg,
		deps:        deps,
		router:      r,
		streams:     streams,
		stopStreams: stopStreams,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Kiosk.AllowedOrigins))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Kiosk.Host, fmt.Sprint(cfg.Kiosk.Port)),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: the SSE stream stays open for the kiosk's lifetime.
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return s.streams },
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Printf("Starting kiosk web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down kiosk web server...")
	s.stopStreams()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}

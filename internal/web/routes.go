package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kozaktomas/attendance-kiosk/internal/web/handlers"
	"github.com/kozaktomas/attendance-kiosk/internal/web/middleware"
	"github.com/kozaktomas/attendance-kiosk/internal/web/static"
)

func (s *Server) setupRoutes() {
	detectionsHandler := handlers.NewDetectionsHandler(s.deps.Detections)
	framesHandler := handlers.NewFramesHandler(s.deps.Frames)
	statusHandler := handlers.NewStatusHandler(s.deps.Status, s.deps.Log)
	eventsHandler := handlers.NewEventsHandler(s.deps.Broadcaster, s.deps.Status)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// High-rate ingest from the page, not request-logged.
		r.Post("/detections", detectionsHandler.Ingest)
		r.Post("/frames", framesHandler.Push)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Logger)

			r.Get("/status", statusHandler.Get)
			r.Get("/today", statusHandler.Today)
			r.Get("/events", eventsHandler.Events)
		})
	})

	// Kiosk screen
	s.router.With(middleware.SecurityHeaders()).
		Handle("/*", http.FileServer(static.GetFileSystem()))
}

// Package server sets up the HTTP server and registers API routes for go-namestamp.
//
// RegisterRoutes returns an http.Handler with all API endpoints for session,
// preview and generation management.
//
// Expected outputs:
// - All API endpoints are available under /api/sessions
// - CORS and logging middleware are enabled
// - Swagger UI is served to localhost under /swagger/
package server

import (
	"net"
	"net/http"

	_ "go-namestamp/docs"
	"go-namestamp/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Only allow requests from localhost to /swagger/*
func localhostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, _ := net.SplitHostPort(r.RemoteAddr)
		if host != "127.0.0.1" && host != "::1" && host != "localhost" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"https://*", "http://*"},
		AllowedMethods:     []string{"GET", "POST", "PUT"},
		AllowedHeaders:     []string{"Content-Type"},
		ExposedHeaders:     []string{"Content-Disposition"},
		OptionsPassthrough: false,
	}))
	r.With(localhostOnly).Get("/swagger/*", httpSwagger.WrapHandler)
	h := handlers.NewAPIHandler(s.SessionManager, s.Generator, s.UploadDir, s.OutputDir, s.MaxUpload)
	r.Route("/api/sessions", func(api chi.Router) {
		api.Post("/", h.CreateSession)
		api.Post("/{sessionID}/names", h.UploadNames)
		api.Post("/{sessionID}/template", h.UploadTemplate)
		api.Get("/{sessionID}/preview", h.GetPreview)
		api.Post("/{sessionID}/actions/rotate", h.Rotate)
		api.Put("/{sessionID}/placement", h.SetPlacement)
		api.Put("/{sessionID}/placeholder", h.SetPlaceholder)
		api.Post("/{sessionID}/actions/generate", h.Generate)
		api.Post("/{sessionID}/actions/restart", h.Restart)
		api.Get("/{sessionID}/files/{filename}", h.DownloadFile)
	})

	return r
}

// Package server provides the HTTP server setup for go-namestamp.
//
// NewServer creates and configures the HTTP server, session manager, PDF
// generator and file directories from a *config.Config.
//
// Expected outputs:
// - Server listens on the configured address (default :8080)
// - Expired sessions and their files are cleaned up periodically
//
// Usage:
//
//	cfg, _ := config.LoadFromFlags()
//	srv := server.NewServer(cfg)
//	srv.ListenAndServe()
//
// See internal/server/routes.go for route registration.
package server

import (
	"log"
	"net/http"
	"time"

	"go-namestamp/internal/config"
	"go-namestamp/internal/handlers"
	"go-namestamp/internal/pdf"
	"go-namestamp/internal/session"
)

type Server struct {
	SessionManager *session.SessionManager
	Generator      handlers.Generator
	UploadDir      string
	OutputDir      string
	MaxUpload      int64
}

// New builds a Server without starting the session janitor.
func New(cfg *config.Config, sm *session.SessionManager) *Server {
	return &Server{
		SessionManager: sm,
		Generator:      pdf.NewGenerator(cfg.TitlePages),
		UploadDir:      cfg.UploadDir,
		OutputDir:      cfg.OutputDir,
		MaxUpload:      cfg.MaxUpload,
	}
}

func NewServer(cfg *config.Config, sm *session.SessionManager) *http.Server {
	srv := New(cfg, sm)

	// Cleanup goroutine for expired sessions/files
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			if n := srv.SessionManager.Sweep(cfg.SessionTTL); n > 0 && cfg.IsDebug() {
				log.Printf("Removed %d expired sessions", n)
			}
		}
	}()

	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
}

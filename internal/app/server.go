package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dumbpishu/ExplainThis/internal/api/handlers"
	"github.com/dumbpishu/ExplainThis/internal/config"
	"github.com/dumbpishu/ExplainThis/internal/core"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, ing handlers.Ingestor, chat handlers.Chatter, sessions handlers.SessionManager, textLayer, ocrFallback core.PdfTextExtractor, archive core.ObjectStore) *Server {
	ingestHandler := handlers.NewIngestHandler(ing, sessions, textLayer, ocrFallback, archive, cfg.MaxTextLen)
	chatHandler := handlers.NewChatHandler(chat)
	sessionHandler := handlers.NewSessionHandler(sessions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CorsOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/ingest-text", ingestHandler.IngestText)
		api.Post("/ingest-pdf", ingestHandler.IngestPDF)
		api.Post("/chat/{sessionID}", chatHandler.Ask)
		api.Post("/session", sessionHandler.Create)
		api.Delete("/sessions/{sessionID}", sessionHandler.Delete)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

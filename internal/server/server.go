package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"elevator-chat/internal/auth"
	"elevator-chat/internal/config"
	"elevator-chat/internal/db"
	"elevator-chat/internal/rag"
	"elevator-chat/internal/session"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, sessions *session.Manager, authClient *auth.Client, store *db.Store, pipeline *rag.Pipeline) *Server {
	h := &handlers{
		cfg:      cfg,
		sessions: sessions,
		auth:     authClient,
		store:    store,
		pipeline: pipeline,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// the browser UI
	r.Handle("/*", http.FileServer(http.Dir(cfg.Server.WebDir)))

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", h.login)

		api.Group(func(protected chi.Router) {
			protected.Use(h.requireSession)
			protected.Post("/logout", h.logout)
			protected.Post("/manuals/upload", h.uploadManuals)
			protected.Post("/chat/ask", h.ask)
			protected.Get("/history", h.history)
			protected.Get("/conversations", h.listConversations)
			protected.Post("/conversations", h.newConversation)
			protected.Post("/conversations/{id}/select", h.selectConversation)
			protected.Delete("/conversations/{id}", h.deleteConversation)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

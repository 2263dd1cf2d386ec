package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/splitdeck/splitdeck/internal/lifecycle"
)

type Server struct {
	router            *http.ServeMux
	port              int
	service           *lifecycle.Service
	jwtSecret         []byte
	integrationAPIKey string
}

func NewServer(service *lifecycle.Service, port int, jwtSecret string, integrationAPIKey string) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		port:              port,
		service:           service,
		jwtSecret:         []byte(jwtSecret),
		integrationAPIKey: integrationAPIKey,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Experiment management
	s.router.HandleFunc("POST /api/experiments", s.withAuth(s.handleCreateExperiment))
	s.router.HandleFunc("GET /api/experiments", s.withAuth(s.handleListExperiments))
	s.router.HandleFunc("GET /api/experiments/{id}", s.withAuth(s.handleExperimentDetail))
	s.router.HandleFunc("PUT /api/experiments/{id}", s.withAuth(s.handleUpdateExperiment))
	s.router.HandleFunc("DELETE /api/experiments/{id}", s.withAuth(s.handleDeleteExperiment))

	// Lifecycle
	s.router.HandleFunc("PATCH /api/experiments/{id}/status", s.withAuth(s.handleUpdateStatus))
	s.router.HandleFunc("GET /api/experiments/{id}/validate", s.withAuth(s.handleValidateGoLive))

	// Audit timeline
	s.router.HandleFunc("GET /api/experiments/{id}/audit", s.withAuth(s.handleAuditLog))

	// Integration feed for delivery systems
	s.router.HandleFunc("GET /api/integrations/experiments", s.withAPIKey(s.handleIntegrationFeed))
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Starting server at http://localhost:%d\n", s.port)

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Graceful shutdown
	}
	return err
}

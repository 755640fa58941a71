package server

import (
	"fmt"
	"net/http"

	"github.com/pocket-lens/core/internal/config"
	"github.com/pocket-lens/core/pkg/cache"
	"github.com/pocket-lens/core/pkg/database"
	"github.com/pocket-lens/core/pkg/handlers/health"
	"github.com/pocket-lens/core/pkg/handlers/meta"
	"github.com/pocket-lens/core/pkg/handlers/tournaments"
	"github.com/pocket-lens/core/pkg/logger"
	"github.com/pocket-lens/core/pkg/middleware"
	"github.com/pocket-lens/core/pkg/services"
)

// Server serves the sync artifacts read-only: the tournament cache and
// the published meta snapshot.
type Server struct {
	router    *http.ServeMux
	port      string
	logger    *logger.Logger
	metaStore *database.MetaStore
	handlers  struct {
		health      *health.Handler
		tournaments *tournaments.Handler
		meta        *meta.Handler
	}
}

// New creates a new server instance
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	store := cache.NewStore(cfg.Sync.CacheDir)

	metaStore, err := database.OpenMetaStore(cfg.MetaDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open meta database: %w", err)
	}

	metaService := services.NewMetaService(store, metaStore, cfg.MetaSnapshotPath(), cfg.Sync)

	server := &Server{
		router:    http.NewServeMux(),
		port:      cfg.Server.Port,
		logger:    log,
		metaStore: metaStore,
	}

	server.handlers.health = health.NewHandler(log)
	server.handlers.tournaments = tournaments.NewHandler(store, log)
	server.handlers.meta = meta.NewHandler(metaService, log)

	server.setupRoutes()

	return server, nil
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", middleware.CORS(s.handlers.health.HealthCheck))

	s.router.HandleFunc("/", middleware.CORS(func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintf(w, "Pocket Lens API Service - OK"); err != nil {
			http.Error(w, "Failed to write response", http.StatusInternalServerError)
		}
	}))

	// Tournament cache endpoints
	s.router.HandleFunc("/api/tournaments", middleware.CORS(s.handlers.tournaments.List))
	s.router.HandleFunc("/api/tournaments/", middleware.CORS(s.handlers.tournaments.Get)) // handles /api/tournaments/{id}

	// Meta analysis endpoint
	s.router.HandleFunc("/api/meta", middleware.CORS(s.handlers.meta.Snapshot))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().
		Str("action", "server_start").
		Str("port", s.port).
		Msg("Starting API server")

	if err := http.ListenAndServe(":"+s.port, s.router); err != nil {
		return fmt.Errorf("server failed to start on port %s: %w", s.port, err)
	}

	return nil
}

// Close releases server resources
func (s *Server) Close() {
	if s.metaStore != nil {
		if err := s.metaStore.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to close meta database")
			return
		}
		s.logger.Info().Msg("Meta database closed")
	}
}

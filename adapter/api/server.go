// Package api serves the mindfulness HTTP API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/mindful/pkg/config"
	"github.com/felixgeelhaar/mindful/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	metrics observability.Metrics
	deps    Deps
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "127.0.0.1:8000",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		CORSOrigins:  []string{"http://localhost:5173"},
	}
}

// ServerConfigFrom derives the server configuration from application config.
func ServerConfigFrom(cfg *config.Config) ServerConfig {
	sc := DefaultServerConfig()
	if cfg.HTTPAddr != "" {
		sc.Addr = cfg.HTTPAddr
	}
	if len(cfg.CORSOrigins) > 0 {
		sc.CORSOrigins = cfg.CORSOrigins
	}
	return sc
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps Deps, logger *slog.Logger, metrics observability.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: metrics,
		deps:    deps,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.wrap(s.mux, cfg.CORSOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) wrap(h http.Handler, origins []string) http.Handler {
	return observability.RequestMiddleware(s.logger, s.metrics)(CORS(origins)(h))
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.deps.Health != nil {
		s.mux.Handle("GET /api/health/ready", s.deps.Health.Handler())
	}

	// Sessions
	s.mux.HandleFunc("POST /api/sessions", s.createSession)
	s.mux.HandleFunc("GET /api/sessions", s.listSessions)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.getSession)
	s.mux.HandleFunc("PATCH /api/sessions/{id}", s.updateSession)
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.deleteSession)

	// Stats
	s.mux.HandleFunc("GET /api/stats/summary", s.statsSummary)
	s.mux.HandleFunc("GET /api/stats/heatmap", s.statsHeatmap)
	s.mux.HandleFunc("GET /api/stats/streak", s.statsStreak)
	s.mux.HandleFunc("GET /api/stats/weekly", s.statsWeekly)

	// Goals
	s.mux.HandleFunc("GET /api/goals", s.listGoals)
	s.mux.HandleFunc("POST /api/goals", s.createGoal)
	s.mux.HandleFunc("GET /api/goals/progress/all", s.goalsProgress)
	s.mux.HandleFunc("GET /api/goals/{id}", s.getGoal)
	s.mux.HandleFunc("PATCH /api/goals/{id}", s.updateGoal)
	s.mux.HandleFunc("DELETE /api/goals/{id}", s.deleteGoal)

	// Tags
	s.mux.HandleFunc("GET /api/tags", s.listTags)
	s.mux.HandleFunc("POST /api/tags", s.createTag)
	s.mux.HandleFunc("DELETE /api/tags/{id}", s.deleteTag)
	s.mux.HandleFunc("POST /api/tags/sessions/{id}/tags", s.setSessionTags)
	s.mux.HandleFunc("GET /api/tags/sessions/{id}/tags", s.getSessionTags)

	// Export
	s.mux.HandleFunc("GET /api/export/{format}", s.export)

	// Sounds
	s.mux.HandleFunc("GET /api/sounds/{category}", s.listSounds)
	s.mux.HandleFunc("GET /sounds/{category}/{filename}", s.serveSound)

	// Discord and reminders
	s.mux.HandleFunc("GET /api/discord/status", s.discordStatus)
	s.mux.HandleFunc("PUT /api/discord/webhook", s.setWebhook)
	s.mux.HandleFunc("POST /api/discord/test", s.sendTest)
	s.mux.HandleFunc("GET /api/reminders/config", s.reminderConfig)
	s.mux.HandleFunc("PUT /api/reminders/config", s.updateReminderConfig)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docnif/internal/config"
	"github.com/dgallion1/docnif/internal/history"
	"github.com/dgallion1/docnif/internal/nif"
	"github.com/dgallion1/docnif/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Backend is the NIF analysis service.
type Backend interface {
	Process(ctx context.Context, req nif.ProcessRequest) (*nif.ProcessResponse, error)
	SparqlInfo(ctx context.Context) (*nif.SparqlInfo, error)
	Health(ctx context.Context) (*nif.HealthStatus, error)
}

// History records backend submissions.
type History interface {
	Create(ctx context.Context, sub *history.Submission) error
	Get(ctx context.Context, id string) (*history.Submission, error)
	List(ctx context.Context, limit, offset int) ([]*history.Submission, error)
}

// Server is the HTTP API server for docnif.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	backend      Backend
	stats        *nif.LatencyStats
	history      History
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, backend Backend, stats *nif.LatencyStats, hist History, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		backend:      backend,
		stats:        stats,
		history:      hist,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/extract", s.handleExtract)
		r.Get("/api/extract/{jobID}", s.handleExtractStatus)
		r.Delete("/api/extract/{jobID}", s.handleExtractCancel)

		r.Post("/api/reconstruct", s.handleReconstruct)
		r.Post("/api/segment", s.handleSegment)

		r.Post("/api/process", s.handleProcess)
		r.Get("/api/sparql", s.handleSparql)
		r.Get("/api/backend/health", s.handleBackendHealth)

		r.Get("/api/submissions", s.handleListSubmissions)
		r.Get("/api/submissions/{id}", s.handleGetSubmission)

		r.Get("/api/stats/backend", s.handleBackendStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

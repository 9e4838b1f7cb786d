// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"wavesight/internal/adapter/storage"
	"wavesight/internal/config"
	"wavesight/internal/domain/spotter"
	"wavesight/internal/domain/submission"
	"wavesight/internal/server/handlers"
	"wavesight/internal/service/insights"
	"wavesight/internal/service/scoring"
	"wavesight/internal/service/submit"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// Deps bundles everything the HTTP layer needs
type Deps struct {
	Normalizer   submission.Normalizer
	Checker      submission.DuplicateChecker
	Scorer       *scoring.Scorer
	Orchestrator *submit.Orchestrator
	Drafts       submission.DraftStore
	Store        submission.Store
	Spotters     spotter.Store
	Media        *storage.MediaStore
	Aggregator   *insights.Aggregator
	NATS         *nats.Conn
	Logger       *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Spotter-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	submissionHandler := handlers.NewSubmissionHandler(
		deps.Orchestrator, deps.Store, deps.Spotters, deps.Checker, deps.Scorer, deps.Logger,
	)
	draftHandler := handlers.NewDraftHandler(deps.Drafts, deps.Logger)
	metadataHandler := handlers.NewMetadataHandler(deps.Normalizer)
	mediaHandler := handlers.NewMediaHandler(deps.Media, cfg.Submission.MaxUploadSize, deps.Logger)
	insightsHandler := handlers.NewInsightsHandler(deps.Aggregator)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Metadata extraction
			r.Post("/metadata", metadataHandler.Extract)

			// Submissions API
			r.Route("/submissions", func(r chi.Router) {
				r.Get("/", submissionHandler.List)
				r.Post("/", submissionHandler.Submit)
				r.Post("/check", submissionHandler.CheckDuplicate)
				r.Post("/preview", submissionHandler.Preview)
				r.Get("/{id}", submissionHandler.Get)
			})

			// Drafts API
			r.Route("/drafts", func(r chi.Router) {
				r.Get("/", draftHandler.Load)
				r.Put("/", draftHandler.Save)
				r.Delete("/", draftHandler.Discard)
			})

			// Media API
			r.Route("/media", func(r chi.Router) {
				r.Post("/", mediaHandler.Upload)
				r.Get("/{id}", mediaHandler.Serve)
			})

			// Insights API
			r.Get("/insights", insightsHandler.Latest)
		})
	})

	// WebSocket endpoint for the live dashboard feed
	router.Get("/ws/feed", handlers.FeedWebSocketHandler(
		deps.NATS, cfg.Submission.EventsTopic, cfg.Insights.EventsTopic, deps.Logger,
	))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geonews/internal/config"
	"geonews/internal/domain/trend"
	"geonews/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	trendingService trend.Service,
	simulator handlers.EventSimulator,
	newsService handlers.NewsQuerier,
	defaultRadiusKm float64,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	trendingHandler := handlers.NewTrendingHandler(trendingService, simulator, defaultRadiusKm)
	newsHandler := handlers.NewNewsHandler(newsService)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			r.Route("/news", func(r chi.Router) {
				// Trending API
				r.Get("/trending", trendingHandler.GetTrending)
				r.Post("/trending/simulate", trendingHandler.SimulateEvents)

				// Query API
				r.Post("/query", newsHandler.QueryNews)
				r.Get("/category", newsHandler.GetByCategory)
				r.Get("/score", newsHandler.GetByScore)
				r.Get("/search", newsHandler.Search)
				r.Get("/source", newsHandler.GetBySource)
				r.Get("/nearby", newsHandler.GetNearby)
			})
		})
	})

	// Prometheus metrics
	router.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
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

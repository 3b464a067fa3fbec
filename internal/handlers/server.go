package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pep299/iqcraft/internal/article"
	"github.com/pep299/iqcraft/internal/cache"
	"github.com/pep299/iqcraft/internal/config"
	"github.com/pep299/iqcraft/internal/export"
	"github.com/pep299/iqcraft/internal/gemini"
	"github.com/pep299/iqcraft/internal/study"
)

// Version is reported by the health endpoint.
const Version = "v1.0.0"

// maxUploadBytes bounds multipart uploads.
const maxUploadBytes = 10 << 20

// Server holds the HTTP server and its dependencies
type Server struct {
	config       *config.Config
	fetcher      *article.Fetcher
	orchestrator *study.Orchestrator
	renderer     *export.Renderer
	cacheManager *cache.Manager
}

// NewServer creates a new HTTP server backed by Gemini.
func NewServer(cfg *config.Config) (*Server, error) {
	cacheManager, err := cache.NewManager(cfg.CacheType, cfg.CacheTTL())
	if err != nil {
		return nil, fmt.Errorf("creating cache manager: %w", err)
	}

	renderer, err := export.NewRenderer(cfg.Brand)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	if !cfg.AIConfigured() {
		log.Println("⚠️ GEMINI_API_KEY is not set, AI capabilities will report unavailable")
	}
	client := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)
	orchestrator := study.New(gemini.NewSummarizer(client), gemini.NewLanguageModel(client)).WithCache(cacheManager)

	return NewServerWithDeps(cfg, article.NewFetcher(cfg.FetchTimeout(), cfg.MaxArticleLength), orchestrator, renderer, cacheManager), nil
}

// NewServerWithDeps creates a server from already-built dependencies.
func NewServerWithDeps(cfg *config.Config, fetcher *article.Fetcher, orchestrator *study.Orchestrator, renderer *export.Renderer, cacheManager *cache.Manager) *Server {
	return &Server{
		config:       cfg,
		fetcher:      fetcher,
		orchestrator: orchestrator,
		renderer:     renderer,
		cacheManager: cacheManager,
	}
}

// CacheManager returns the summary cache, nil when caching is disabled.
func (s *Server) CacheManager() *cache.Manager {
	return s.cacheManager
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	// Article fetch proxy
	r.Handle("/api/fetchArticle", FetchArticleHandler(s.fetcher)).Methods(http.MethodGet, http.MethodOptions)

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(corsMiddleware("GET, POST, OPTIONS"))

	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/summarize", s.summarizeHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/upload", s.uploadHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flashcards", s.flashcardsHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flashcards/export", s.exportHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/quiz", s.quizHandler).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/quiz/score", s.scoreHandler).Methods(http.MethodPost, http.MethodOptions)

	return r
}

// Middleware functions

// corsMiddleware adds CORS headers and answers preflight requests
func corsMiddleware(methods string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the ResponseWriter to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		log.Printf("%s %s status=%d duration_ms=%d", r.Method, r.URL.Path, wrapped.statusCode, time.Since(start).Milliseconds())
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/jusunglee/thaiconv/internal/transliteration"
	"github.com/jusunglee/thaiconv/internal/web/handlers"
	"github.com/jusunglee/thaiconv/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

// Config holds the HTTP-facing settings of the router.
type Config struct {
	AllowedOrigins []string
	AdminUser      string
	AdminPassword  string

	// RateLimit is the number of write requests each IP may make per minute.
	RateLimit int
}

type Router struct {
	engine *transliteration.Engine
	repo   db.Repository
	log    *slog.Logger
	cfg    Config
}

// NewRouter wires the API. repo may be nil when no database is configured;
// feedback routes then answer 503.
func NewRouter(engine *transliteration.Engine, repo db.Repository, log *slog.Logger, cfg Config) *Router {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 60
	}
	if cfg.AdminUser == "" {
		cfg.AdminUser = "admin"
	}
	return &Router{engine: engine, repo: repo, log: log, cfg: cfg}
}

// Handler builds the mux. The rate limiter's sweeper stops with ctx.
func (r *Router) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()

	convertHandler := handlers.NewConvertHandler(r.engine, r.log)
	feedbackHandler := handlers.NewFeedbackHandler(r.repo, r.engine, r.log)

	rateLimiter := middleware.NewRateLimiter(ctx, r.cfg.RateLimit, time.Minute)

	mux.Handle("POST /api/v1/convert",
		middleware.Chain(
			http.HandlerFunc(convertHandler.Convert),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(rateLimiter),
		),
	)

	mux.Handle("GET /api/v1/suggest",
		middleware.Chain(
			http.HandlerFunc(convertHandler.Suggest),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.CacheControl("public, max-age=300"),
		),
	)

	mux.Handle("POST /api/v1/feedback",
		middleware.Chain(
			http.HandlerFunc(feedbackHandler.Create),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.RateLimit(rateLimiter),
		),
	)

	mux.Handle("GET /api/v1/feedback",
		middleware.Chain(
			http.HandlerFunc(feedbackHandler.List),
			middleware.PrometheusMetrics(),
			middleware.RequestLogger(r.log),
			middleware.BasicAuth(r.cfg.AdminUser, r.cfg.AdminPassword),
		),
	)

	mux.HandleFunc("GET /health", r.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /", middleware.Chain(
		http.FileServerFS(static),
		middleware.CacheControl("public, s-maxage=60, max-age=0"),
	))

	return middleware.CORS(r.cfg.AllowedOrigins)(mux)
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	code := http.StatusOK
	if r.repo != nil {
		if _, err := r.repo.CountFeedback(req.Context()); err != nil {
			r.log.ErrorContext(req.Context(), "health check database", "error", err)
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":     status,
		"dictionary": r.engine.Dictionary().Len(),
		"database":   r.repo != nil,
	})
}

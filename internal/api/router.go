package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/server"
)

// ServiceName is reported by GET /api/health.
const ServiceName = "ClickUp Integration API"

// APIVersion is the version of the HTTP contract, independent of the binary version.
const APIVersion = "1.0.0"

// RouterConfig wires the router dependencies.
type RouterConfig struct {
	Health  *server.HealthChecker
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the web API router.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	h := NewHealthHandler(cfg.Health, cfg.Now)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Metrics(cfg.Metrics))
	r.Use(middleware.Recoverer)

	r.Get("/api/health", h.Check)
	r.Get("/api/health/clickup", h.CheckClickUp)

	if cfg.Health != nil {
		cfg.Health.RegisterHealthEndpoints(r)
	}

	return r
}

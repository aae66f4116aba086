package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusDegraded     = "degraded"
	healthStatusUnavailable  = "unavailable"
	healthStatusUnconfigured = "not configured"
)

// DefaultUpstreamTimeout bounds the ClickUp call made by detailed health checks.
const DefaultUpstreamTimeout = 5 * time.Second

// ErrClientNotConfigured is returned by CheckUpstream when no ClickUp client exists.
var ErrClientNotConfigured = errors.New("clickup client is not configured")

// HealthChecker provides health check endpoints for Kubernetes liveness and readiness checks.
type HealthChecker struct {
	// ready indicates whether the server is ready to receive traffic
	ready atomic.Bool
	// serverContext provides access to dependencies for health checks
	serverContext *ServerContext
	// startTime tracks when the server started
	startTime time.Time
	// upstreamTimeout bounds the ClickUp connectivity check
	upstreamTimeout time.Duration
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext:   sc,
		startTime:       time.Now(),
		upstreamTimeout: DefaultUpstreamTimeout,
	}
	// Server starts as ready by default
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// isServerShuttingDown checks if the server context is shutting down.
// Returns false if serverContext is nil (safe for testing).
func (h *HealthChecker) isServerShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// CheckUpstream lists the workspaces visible to the configured token and
// returns how many were found.
func (h *HealthChecker) CheckUpstream(ctx context.Context) (int, error) {
	if h.serverContext == nil || h.serverContext.Client() == nil {
		return 0, ErrClientNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, h.upstreamTimeout)
	defer cancel()

	teams, err := h.serverContext.Client().Teams(ctx)
	if err != nil {
		return 0, err
	}
	return len(teams), nil
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds uptime and ClickUp connectivity.
type DetailedHealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks,omitempty"`
	Teams  int               `json:"teams_found"`
}

// readinessStatus evaluates the local readiness checks. status is empty when the
// server can take traffic.
func (h *HealthChecker) readinessStatus(checks map[string]string) (status string) {
	checks["ready"] = healthStatusOK
	checks["shutdown"] = healthStatusOK

	if !h.IsReady() {
		checks["ready"] = healthStatusNotReady
		status = healthStatusNotReady
	}
	if h.isServerShuttingDown() {
		checks["shutdown"] = healthStatusShuttingDown
		if status == "" {
			status = healthStatusShuttingDown
		}
	}
	return status
}

func writeHealth(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// LivenessHandler serves /healthz. It only reports that the process runs.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz. It answers 503 once SetReady(false) was
// called or the server context is shutting down.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks := make(map[string]string, 2)
		if h.readinessStatus(checks) != "" {
			writeHealth(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady, Checks: checks})
			return
		}
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK, Checks: checks})
	})
}

// Router is satisfied by both *http.ServeMux and chi.Router.
type Router interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterHealthEndpoints mounts /healthz, /readyz and /healthz/detailed.
func (h *HealthChecker) RegisterHealthEndpoints(mux Router) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}

// DetailedHealthHandler serves /healthz/detailed. An unreachable ClickUp API
// degrades the status but keeps the endpoint at 200 since the process itself
// is healthy.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
			Checks: make(map[string]string),
		}

		teams, err := h.CheckUpstream(r.Context())
		switch {
		case errors.Is(err, ErrClientNotConfigured):
			response.Checks["clickup"] = healthStatusUnconfigured
		case err != nil:
			response.Checks["clickup"] = healthStatusUnavailable
			response.Status = healthStatusDegraded
		default:
			response.Checks["clickup"] = healthStatusOK
			response.Teams = teams
		}

		if status := h.readinessStatus(response.Checks); status != "" {
			response.Status = status
			writeHealth(w, http.StatusServiceUnavailable, response)
			return
		}
		writeHealth(w, http.StatusOK, response)
	})
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/server"
)

// ServiceHealth is the body of GET /api/health.
type ServiceHealth struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// ClickUpHealth is the body of GET /api/health/clickup.
type ClickUpHealth struct {
	Status     string    `json:"status"`
	TeamsFound int       `json:"teamsFound,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// HealthHandler serves the /api/health routes.
type HealthHandler struct {
	checker *server.HealthChecker
	now     func() time.Time
}

// NewHealthHandler creates a HealthHandler. A nil checker makes the ClickUp
// check report that no client is configured.
func NewHealthHandler(checker *server.HealthChecker, now func() time.Time) *HealthHandler {
	if checker == nil {
		checker = server.NewHealthChecker(nil)
	}
	return &HealthHandler{checker: checker, now: now}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, ServiceHealth{
		Status:    "Healthy",
		Timestamp: h.now().UTC(),
		Service:   ServiceName,
		Version:   APIVersion,
	})
}

// CheckClickUp handles GET /api/health/clickup.
func (h *HealthHandler) CheckClickUp(w http.ResponseWriter, r *http.Request) {
	teams, err := h.checker.CheckUpstream(r.Context())
	if err != nil {
		reason := err.Error()
		if clickup.IsUnauthorized(err) {
			reason = "invalid or expired ClickUp API token: " + reason
		}
		respondJSON(w, http.StatusInternalServerError, ClickUpHealth{
			Status:    "Failed",
			Error:     reason,
			Timestamp: h.now().UTC(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ClickUpHealth{
		Status:     "Connected",
		TeamsFound: teams,
		Timestamp:  h.now().UTC(),
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

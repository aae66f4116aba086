package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
)

// DefaultMCPEndpoint is the path the streamable HTTP transport is mounted on.
const DefaultMCPEndpoint = "/mcp"

// HTTPServerConfig configures the MCP streamable HTTP server.
type HTTPServerConfig struct {
	// DisableStreaming turns off SSE upgrades for clients that cannot handle them.
	DisableStreaming bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string
}

// HTTPServer exposes an MCP server over streamable HTTP together with the
// Kubernetes health endpoints.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	config        HTTPServerConfig
	healthChecker *HealthChecker
	metrics       *instrumentation.Metrics

	mu         sync.Mutex
	httpServer *http.Server
}

// NewHTTPServer creates a new streamable HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if (config.TLSCertFile == "") != (config.TLSKeyFile == "") {
		return nil, fmt.Errorf("both TLS certificate and key files must be provided")
	}
	return &HTTPServer{
		mcpServer: mcpServer,
		config:    config,
	}, nil
}

// SetHealthChecker registers /healthz, /readyz and /healthz/detailed.
func (s *HTTPServer) SetHealthChecker(hc *HealthChecker) {
	s.healthChecker = hc
}

// SetMetrics enables per-request HTTP metrics.
func (s *HTTPServer) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// Handler builds the HTTP handler tree. It is exported for tests.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	opts := []mcpserver.StreamableHTTPOption{
		mcpserver.WithEndpointPath(DefaultMCPEndpoint),
	}
	if s.config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}
	mux.Handle(DefaultMCPEndpoint, mcpserver.NewStreamableHTTPServer(s.mcpServer, opts...))

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	return s.instrument(mux)
}

// instrument records request metrics using the matched mux pattern so that
// the path label stays bounded.
func (s *HTTPServer) instrument(mux *http.ServeMux) http.Handler {
	if s.metrics == nil {
		return mux
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		mux.ServeHTTP(rec, r)

		_, pattern := mux.Handler(r)
		if pattern == "" {
			pattern = "unmatched"
		}
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, pattern, rec.status, time.Since(start))
	})
}

// Start listens on addr and blocks until the server stops.
func (s *HTTPServer) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if s.config.TLSCertFile != "" {
		slog.Info("starting MCP HTTPS server", "addr", addr, "endpoint", DefaultMCPEndpoint)
		return srv.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	}
	slog.Info("starting MCP HTTP server", "addr", addr, "endpoint", DefaultMCPEndpoint)
	return srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/resources"
	"github.com/teemow/clickup-mcp/internal/server"
	"github.com/teemow/clickup-mcp/internal/tools/member_tools"
	"github.com/teemow/clickup-mcp/internal/tools/system_tools"
	"github.com/teemow/clickup-mcp/internal/tools/tasks_tools"
	"github.com/teemow/clickup-mcp/internal/tools/workspace_tools"
)

// Transport names accepted by --transport.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// ServeOptions collects the serve command flags.
type ServeOptions struct {
	Transport        string
	HTTPAddr         string
	Yolo             bool
	DisableStreaming bool
	TLSCertFile      string
	TLSKeyFile       string
	Metrics          MetricsConfig
	AuditIncludePII  bool
}

func newServeCmd() *cobra.Command {
	var opts ServeOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide ClickUp tools
for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (creating spaces, lists and tasks,
  updating and deleting tasks).

Authentication:
  Set CLICKUP_API_TOKEN or pass --token. Personal tokens (pk_...) and OAuth
  access tokens are both accepted. Without a token the server still starts,
  but ClickUp tools report that no token is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tls-cert-file") {
				opts.TLSCertFile = os.Getenv("TLS_CERT_FILE")
			}
			if !cmd.Flags().Changed("tls-key-file") {
				opts.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
			}
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.Yolo, "yolo", false, "Enable write operations (task creation, updates and deletion). Default is read-only mode.")
	cmd.Flags().BoolVar(&opts.DisableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")

	// TLS flags for HTTPS support
	cmd.Flags().StringVar(&opts.TLSCertFile, "tls-cert-file", "", "Path to TLS certificate file (PEM format). If provided with --tls-key-file, enables HTTPS. Can also use TLS_CERT_FILE env var.")
	cmd.Flags().StringVar(&opts.TLSKeyFile, "tls-key-file", "", "Path to TLS private key file (PEM format). If provided with --tls-cert-file, enables HTTPS. Can also use TLS_KEY_FILE env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&opts.Metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.Metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	cmd.Flags().BoolVar(&opts.AuditIncludePII, "audit-include-pii", false, "Log raw member identifiers in audit records. Overrides AUDIT_LOGGING_INCLUDE_PII.")

	return cmd
}

func runServe(cmd *cobra.Command, opts ServeOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("metrics-enabled") {
		opts.Metrics.Enabled = cfg.MetricsEnabled
	}
	if !cmd.Flags().Changed("metrics-addr") {
		opts.Metrics.Addr = cfg.MetricsAddr
	}

	// stdout is the protocol channel for stdio, so logs always go to stderr
	logger := newLogger(cfg, os.Stderr)
	slogger := logger.Logger()

	var client *clickup.Client
	if cfg.APIToken != "" {
		client, err = newClickUpClient(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create ClickUp client: %w", err)
		}
	} else {
		slogger.Warn("no ClickUp API token configured; ClickUp tools will report an error until CLICKUP_API_TOKEN is set")
	}

	// Initialize instrumentation provider
	instrConfig, err := instrumentation.LoadConfig()
	if err != nil {
		return err
	}
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slogger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.Transport != transportStdio && opts.Metrics.Enabled && provider.Enabled() && provider.ServesPrometheus() {
		metricsServer, err = startMetricsServer(opts.Metrics.Addr, provider)
		if err != nil {
			return err
		}
		slogger.Info("metrics server started", "addr", metricsServer.ListenAddr())
	}

	serverContext := server.NewServerContext(shutdownCtx, client, logger, memberOptions(globals))

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		var includePII *bool
		if cmd.Flags().Changed("audit-include-pii") {
			includePII = &opts.AuditIncludePII
		}
		serverContext.SetAuditLogger(newAuditLogger(slogger, instrConfig.AuditLogging, includePII))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				slogger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			slogger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	mcpSrv := newMCPServer()

	// readOnly is the inverse of yolo
	readOnly := !opts.Yolo
	serverContext.SetReadOnly(readOnly)
	if readOnly {
		slogger.Info("starting server in READ-ONLY mode (use --yolo to enable write operations)")
	} else {
		slogger.Info("starting server with WRITE operations enabled (--yolo flag is set)")
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	switch opts.Transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, provider, opts, slogger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.Transport)
	}
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("clickup-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)
}

// startMetricsServer starts the Prometheus endpoint and waits until it listens.
// newAuditLogger builds the audit logger from its env config. A non-nil
// includePII comes from --audit-include-pii and wins over the env value.
func newAuditLogger(logger *slog.Logger, cfg instrumentation.AuditLoggingConfig, includePII *bool) *instrumentation.AuditLogger {
	al := instrumentation.NewAuditLoggerWithConfig(logger, cfg)
	if includePII != nil {
		al.SetIncludePII(*includePII)
	}
	return al
}

func startMetricsServer(addr string, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "System",
			register: func() error {
				return system_tools.RegisterSystemTools(mcpSrv, sc, version)
			},
		},
		{
			name: "Workspace",
			register: func() error {
				return workspace_tools.RegisterWorkspaceTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Tasks",
			register: func() error {
				return tasks_tools.RegisterTasksTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Members",
			register: func() error {
				return member_tools.RegisterMemberTools(mcpSrv, sc)
			},
		},
		{
			name: "Workspace Resources",
			register: func() error {
				return resources.RegisterWorkspaceResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, provider *instrumentation.Provider, opts ServeOptions, logger *slog.Logger) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		DisableStreaming: opts.DisableStreaming,
		TLSCertFile:      opts.TLSCertFile,
		TLSKeyFile:       opts.TLSKeyFile,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	healthChecker := server.NewHealthChecker(sc)
	httpServer.SetHealthChecker(healthChecker)
	if provider.Enabled() {
		httpServer.SetMetrics(provider.Metrics())
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(opts.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	logger.Info("MCP server listening",
		"transport", transportStreamableHTTP,
		"addr", opts.HTTPAddr,
		"endpoint", server.DefaultMCPEndpoint,
		"tls", opts.TLSCertFile != "")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		healthChecker.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
	}

	logger.Info("server gracefully stopped")
	return nil
}

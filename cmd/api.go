package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/clickup-mcp/internal/api"
	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/server"
)

type apiOptions struct {
	addr    string
	metrics MetricsConfig
}

func newAPICmd() *cobra.Command {
	var opts apiOptions

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the web API",
		Long: `Start the HTTP web API.

Endpoints:
  GET /api/health          Service status
  GET /api/health/clickup  Connectivity check against ClickUp (lists teams)
  GET /healthz, /readyz    Kubernetes health checks

Every response carries an X-Correlation-ID header. An inbound
X-Correlation-ID is reused, otherwise a new one is generated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPI(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address. Can also use API_ADDR env var. Default: :8080")
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runAPI(cmd *cobra.Command, opts apiOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	if opts.addr == "" {
		opts.addr = cfg.APIAddr
	}
	if !cmd.Flags().Changed("metrics-enabled") {
		opts.metrics.Enabled = cfg.MetricsEnabled
	}
	if !cmd.Flags().Changed("metrics-addr") {
		opts.metrics.Addr = cfg.MetricsAddr
	}

	logger := newLogger(cfg, os.Stderr)
	slogger := logger.Logger()

	// The connectivity check reports a missing token instead of refusing to start
	var client *clickup.Client
	if cfg.APIToken != "" {
		client, err = newClickUpClient(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create ClickUp client: %w", err)
		}
	} else {
		slogger.Warn("no ClickUp API token configured; /api/health/clickup will report Failed")
	}

	instrConfig, err := instrumentation.LoadConfig()
	if err != nil {
		return err
	}
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			slogger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	var metricsServer *server.MetricsServer
	if opts.metrics.Enabled && provider.Enabled() && provider.ServesPrometheus() {
		metricsServer, err = startMetricsServer(opts.metrics.Addr, provider)
		if err != nil {
			return err
		}
		slogger.Info("metrics server started", "addr", metricsServer.ListenAddr())
	}

	sc := server.NewServerContext(ctx, client, logger, memberOptions(globals))
	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slogger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
		_ = sc.Shutdown()
	}()

	health := server.NewHealthChecker(sc)

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	httpServer := &http.Server{
		Addr: opts.addr,
		Handler: api.NewRouter(api.RouterConfig{
			Health:  health,
			Logger:  slogger,
			Metrics: metrics,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	slogger.Info("web API listening", "addr", opts.addr)

	select {
	case <-ctx.Done():
		slogger.Info("shutdown signal received")
		health.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down web API: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("web API stopped with error: %w", err)
		}
	}

	slogger.Info("web API gracefully stopped")
	return nil
}

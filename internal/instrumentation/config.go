package instrumentation

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for OpenTelemetry instrumentation.
// Field tags name the environment variables read by LoadConfig.
type Config struct {
	// ServiceName is the name of the service (default: clickup-mcp)
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"clickup-mcp"`

	// ServiceVersion is set by the caller from the build version.
	ServiceVersion string `ignored:"true"`

	// ServiceInstanceID is the unique instance identifier (default: hostname)
	ServiceInstanceID string `envconfig:"OTEL_SERVICE_INSTANCE_ID"`

	// K8sNamespace falls back to POD_NAMESPACE when unset.
	K8sNamespace string `envconfig:"K8S_NAMESPACE"`

	// K8sPodName falls back to HOSTNAME when unset.
	K8sPodName string `envconfig:"K8S_POD_NAME"`

	// Enabled determines if instrumentation is active (default: true)
	Enabled bool `envconfig:"INSTRUMENTATION_ENABLED" default:"true"`

	// MetricsExporter is one of "prometheus", "otlp", "stdout" (default: "prometheus")
	MetricsExporter string `envconfig:"METRICS_EXPORTER" default:"prometheus"`

	// TracingExporter is one of "otlp", "stdout", "none" (default: "none")
	TracingExporter string `envconfig:"TRACING_EXPORTER" default:"none"`

	// OTLPEndpoint is the OTLP collector endpoint without protocol prefix,
	// e.g. "localhost:4318".
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// OTLPInsecure uses plain HTTP for OTLP export. Development only.
	OTLPInsecure bool `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"false"`

	// TraceSamplingRate is the sampling rate for traces (0.0 to 1.0, default: 0.1)
	TraceSamplingRate float64 `envconfig:"OTEL_TRACES_SAMPLER_ARG" default:"0.1"`

	// PrometheusEndpoint is the path for the Prometheus metrics endpoint (default: "/metrics")
	PrometheusEndpoint string `envconfig:"PROMETHEUS_ENDPOINT" default:"/metrics"`

	// DetailedLabels adds high-cardinality labels such as list and team IDs.
	// Keep disabled in production.
	DetailedLabels bool `envconfig:"METRICS_DETAILED_LABELS" default:"false"`

	// AuditLogging configures audit logging behavior.
	AuditLogging AuditLoggingConfig `envconfig:"AUDIT_LOGGING"`
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool `envconfig:"ENABLED" default:"true"`

	// IncludePII logs member identifiers (usernames, emails) verbatim.
	// When false (default), emails are hashed.
	IncludePII bool `envconfig:"INCLUDE_PII" default:"false"`

	// LogLevel sets the slog level for audit log messages (default: info).
	LogLevel string `envconfig:"LEVEL" default:"info"`
}

// DefaultConfig returns the built-in defaults without consulting the environment.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "clickup-mcp",
		ServiceVersion:     "unknown",
		Enabled:            true,
		MetricsExporter:    ExporterPrometheus,
		TracingExporter:    ExporterNone,
		TraceSamplingRate:  0.1,
		PrometheusEndpoint: "/metrics",
		AuditLogging: AuditLoggingConfig{
			Enabled:  true,
			LogLevel: "info",
		},
	}
}

// LoadConfig reads and validates the configuration from environment variables.
func LoadConfig() (Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to load instrumentation config: %w", err)
	}
	config.ServiceVersion = "unknown"

	if config.K8sNamespace == "" {
		config.K8sNamespace = os.Getenv("POD_NAMESPACE")
	}
	if config.K8sPodName == "" {
		config.K8sPodName = os.Getenv("HOSTNAME")
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid instrumentation config: %w", err)
	}
	return config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	validMetricsExporters := map[string]bool{ExporterPrometheus: true, ExporterOTLP: true, ExporterStdout: true}
	if c.MetricsExporter != "" && !validMetricsExporters[c.MetricsExporter] {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	validTracingExporters := map[string]bool{ExporterOTLP: true, ExporterStdout: true, ExporterNone: true}
	if c.TracingExporter != "" && !validTracingExporters[c.TracingExporter] {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.TracingExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}

	return nil
}

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// ServiceClickUp labels ClickUp API operations.
	ServiceClickUp = "clickup"

	// ClickUp resource kinds
	ResourceTeam   = "team"
	ResourceSpace  = "space"
	ResourceFolder = "folder"
	ResourceList   = "list"
	ResourceTask   = "task"
	ResourceMember = "member"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval = 10 * time.Second
)

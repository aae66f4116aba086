// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for clickup-mcp.
//
// # Metrics
//
// Server/HTTP:
//   - http_requests_total: requests by method, route and status
//   - http_request_duration_seconds: request durations
//
// ClickUp API:
//   - clickup_api_operations_total: operations by resource, operation, status
//   - clickup_api_operation_duration_seconds: operation durations
//
// Member resolution:
//   - member_resolutions_total: identifiers by match tier
//     (numeric, exact, substring, unresolved)
//   - member_roster_size: size of the last fetched roster
//
// MCP tools:
//   - mcp_tool_invocations_total: invocations by tool and status
//   - mcp_tool_duration_seconds: tool durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and ClickUp
// operations (clickup.<resource>.<operation>). Outbound HTTP requests get
// client spans from the otelhttp transport in the ClickUp client.
//
// # Configuration
//
// LoadConfig reads the environment with envconfig:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: clickup-mcp)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PII, AUDIT_LOGGING_LEVEL
//
// # Example Usage
//
//	config, err := instrumentation.LoadConfig()
//	if err != nil {
//		return err
//	}
//	config.ServiceVersion = version
//
//	provider, err := instrumentation.NewProvider(ctx, config)
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordClickUpOperation(ctx, instrumentation.ResourceTeam,
//		instrumentation.OperationList, instrumentation.StatusSuccess, time.Since(start))
package instrumentation

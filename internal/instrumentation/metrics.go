package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResource  = "resource"
	attrMatch     = "match"
	attrTool      = "tool"
	attrTeam      = "team_id"
)

// Metrics provides methods for recording observability metrics.
// A zero Metrics is a valid no-op recorder.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	clickupOperationsTotal   metric.Int64Counter
	clickupOperationDuration metric.Float64Histogram

	memberResolutionsTotal metric.Int64Counter
	rosterSize             metric.Int64Gauge

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all instruments registered on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.clickupOperationsTotal, err = meter.Int64Counter(
		"clickup_api_operations_total",
		metric.WithDescription("Total number of ClickUp API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create clickup_api_operations_total counter: %w", err)
	}

	m.clickupOperationDuration, err = meter.Float64Histogram(
		"clickup_api_operation_duration_seconds",
		metric.WithDescription("ClickUp API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create clickup_api_operation_duration_seconds histogram: %w", err)
	}

	m.memberResolutionsTotal, err = meter.Int64Counter(
		"member_resolutions_total",
		metric.WithDescription("Member identifiers resolved, by match tier"),
		metric.WithUnit("{identifier}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create member_resolutions_total counter: %w", err)
	}

	m.rosterSize, err = meter.Int64Gauge(
		"member_roster_size",
		metric.WithDescription("Number of members in the most recently fetched roster"),
		metric.WithUnit("{member}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create member_roster_size gauge: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, route, status code, and duration.
// path should be the route pattern, not the raw URL, to keep cardinality bounded.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordClickUpOperation records a ClickUp API operation.
//
// Parameters:
//   - resource: ClickUp resource kind (team, space, folder, list, task, member)
//   - operation: Operation type (list, get, create, update, delete, search, resolve)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordClickUpOperation(ctx context.Context, resource, operation, status string, duration time.Duration) {
	if m.clickupOperationsTotal == nil || m.clickupOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResource, resource),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.clickupOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.clickupOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordMemberResolutions adds count identifiers handled with the given match tier
// (numeric, exact, substring, unresolved).
func (m *Metrics) RecordMemberResolutions(ctx context.Context, match string, count int) {
	if m.memberResolutionsTotal == nil || count <= 0 {
		return
	}

	m.memberResolutionsTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrMatch, match)))
}

// RecordRosterSize records the size of a freshly fetched roster.
// The team label is only attached when detailed labels are enabled.
func (m *Metrics) RecordRosterSize(ctx context.Context, teamID string, size int) {
	if m.rosterSize == nil {
		return
	}

	var attrs []attribute.KeyValue
	if m.detailedLabels && teamID != "" {
		attrs = append(attrs, attribute.String(attrTeam, teamID))
	}
	m.rosterSize.Record(ctx, int64(size), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

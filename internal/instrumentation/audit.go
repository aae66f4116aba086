package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/clickup-mcp/internal/logging"
)

// ToolInvocation captures one MCP tool call for the audit trail.
//
// Identifiers holds the member identifiers the caller supplied. They may be
// usernames or email addresses, so they are only logged verbatim when the
// audit logger is configured to include PII.
type ToolInvocation struct {
	Tool string

	Resource   string // ClickUp resource kind (team, space, folder, list, task, member)
	Operation  string // list, get, create, update, delete, search, resolve
	ResourceID string

	Identifiers []string
	Resolved    int

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation creates a new ToolInvocation with timing started.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithResource sets the ClickUp resource and operation.
func (ti *ToolInvocation) WithResource(resource, operation string) *ToolInvocation {
	ti.Resource = resource
	ti.Operation = operation
	return ti
}

// WithResourceID sets the ID of the object the tool acted on.
func (ti *ToolInvocation) WithResourceID(id string) *ToolInvocation {
	ti.ResourceID = id
	return ti
}

// WithIdentifiers records the member identifiers and how many resolved.
func (ti *ToolInvocation) WithIdentifiers(identifiers []string, resolved int) *ToolInvocation {
	ti.Identifiers = identifiers
	ti.Resolved = resolved
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// IdentifierKinds counts identifiers per kind (numeric, email, name, empty).
func (ti *ToolInvocation) IdentifierKinds() map[string]int {
	kinds := make(map[string]int)
	for _, id := range ti.Identifiers {
		kinds[IdentifierKind(id)]++
	}
	return kinds
}

// LogAttrs returns PII-free attributes. Email identifiers are hashed.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if len(ti.Identifiers) > 0 {
		hashed := make([]string, len(ti.Identifiers))
		for i, id := range ti.Identifiers {
			hashed[i] = logging.Identifier(id).Value.String()
		}
		attrs = append(attrs,
			slog.Any("identifiers", hashed),
			slog.Any("identifier_kinds", ti.IdentifierKinds()),
		)
	}
	return ti.tailAttrs(attrs, false)
}

// LogAuditAttrs returns attributes including the raw member identifiers.
// Route these only to audit storage with appropriate access controls.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if len(ti.Identifiers) > 0 {
		attrs = append(attrs, slog.Any("identifiers", ti.Identifiers))
	}
	return ti.tailAttrs(attrs, true)
}

func (ti *ToolInvocation) baseAttrs() []slog.Attr {
	attrs := []slog.Attr{
		logging.Tool(ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Resource != "" {
		attrs = append(attrs, slog.String("resource", ti.Resource))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.ResourceID != "" {
		attrs = append(attrs, slog.String("resource_id", ti.ResourceID))
	}
	if len(ti.Identifiers) > 0 {
		attrs = append(attrs,
			slog.Int("identifiers_requested", len(ti.Identifiers)),
			slog.Int("identifiers_resolved", ti.Resolved),
		)
	}
	return attrs
}

func (ti *ToolInvocation) tailAttrs(attrs []slog.Attr, withSpan bool) []slog.Attr {
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if withSpan && ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger     *slog.Logger
	level      slog.Level
	includePII bool
	enabled    bool
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		level:      logging.ParseLevel(config.LogLevel),
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether raw identifiers are logged.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// LogToolInvocation logs a tool invocation at the configured level on success
// and at warn or above on failure.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Log(context.Background(), al.level, "tool_executed", args...)
	} else {
		al.logger.Log(context.Background(), max(al.level, slog.LevelWarn), "tool_failed", args...)
	}
}

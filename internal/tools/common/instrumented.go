package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

type invocationKey struct{}

var errToolResult = errors.New("tool returned an error result")

// InvocationFromContext returns the audit record of the running tool call,
// or nil when the handler is not instrumented.
func InvocationFromContext(ctx context.Context) *instrumentation.ToolInvocation {
	inv, _ := ctx.Value(invocationKey{}).(*instrumentation.ToolInvocation)
	return inv
}

// InstrumentedToolHandler wraps a tool handler with tracing, metrics, and audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return instrument(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithResource is like InstrumentedToolHandler but also
// records the ClickUp resource and operation the tool acts on.
//
// This handler records both:
//   - MCP tool invocation metrics (mcp_tool_invocations_total, mcp_tool_duration_seconds)
//   - ClickUp operation metrics (clickup_api_operations_total, clickup_api_operation_duration_seconds)
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandlerWithResource("clickup_list_tasks", "task", "list", sc, handler))
func InstrumentedToolHandlerWithResource(toolName, resource, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return instrument(toolName, resource, operation, sc, handler)
}

func instrument(toolName, resource, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		resourceID := resourceIDFromArgs(request.GetArguments())

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithReadOnly(sc.ReadOnly())
		if resource != "" {
			attrs.WithResource(resource, resourceID).WithOperation(operation)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs.Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		if resource != "" {
			invocation.WithResource(resource, operation).WithResourceID(resourceID)
		}
		ctx = context.WithValue(ctx, invocationKey{}, invocation)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			instrumentation.SetSpanError(span, errToolResult)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, duration)
			if resource != "" {
				metrics.RecordClickUpOperation(ctx, resource, operation, status, duration)
			}
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// resourceIDFromArgs picks the most specific ClickUp ID present in the arguments.
func resourceIDFromArgs(args map[string]interface{}) string {
	for _, key := range []string{"task_id", "list_id", "folder_id", "space_id", "team_id"} {
		if v, ok := args[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

package system_tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/clickup-mcp/internal/server"
	"github.com/teemow/clickup-mcp/internal/tools/common"
)

// ServerName is reported by health_check.
const ServerName = "ClickUp MCP Server"

// HealthStatus is the health_check payload.
type HealthStatus struct {
	Status       string   `json:"status"`
	Server       string   `json:"server"`
	Version      string   `json:"version"`
	Timestamp    string   `json:"timestamp"`
	Capabilities []string `json:"capabilities"`
}

// RegisterSystemTools registers health_check and echo.
func RegisterSystemTools(s *mcpserver.MCPServer, sc *server.ServerContext, version string) error {
	healthTool := mcp.NewTool("health_check",
		mcp.WithDescription("Check MCP server health and connection status"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(healthTool, common.InstrumentedToolHandler("health_check", sc, healthCheckHandler(version, time.Now)))

	echoTool := mcp.NewTool("echo",
		mcp.WithDescription("Echo back a message for testing"),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Message to echo back"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(echoTool, common.InstrumentedToolHandler("echo", sc, echoHandler))

	return nil
}

func healthCheckHandler(version string, now func() time.Time) common.ToolHandler {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return common.JSONResult("", HealthStatus{
			Status:       "healthy",
			Server:       ServerName,
			Version:      version,
			Timestamp:    now().UTC().Format(time.RFC3339Nano),
			Capabilities: []string{"tools"},
		})
	}
}

func echoHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, _ := request.GetArguments()["message"].(string)
	if message == "" {
		return mcp.NewToolResultError("Message parameter is required"), nil
	}
	return mcp.NewToolResultText("Echo: " + message), nil
}

// Package system_tools provides the server-level MCP tools that do not touch
// ClickUp: health_check reports server status and echo returns its input.
package system_tools

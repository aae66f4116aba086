// Package server provides the shared MCP server context and the HTTP
// surfaces that run next to it.
//
// ServerContext carries the ClickUp client, the member resolution service,
// and the optional metrics and audit recorders used by tool handlers.
//
// HTTPServer exposes the MCP server over streamable HTTP on /mcp and mounts
// the health endpoints:
//   - /healthz: liveness
//   - /readyz: readiness, fails while shutting down
//   - /healthz/detailed: uptime plus a ClickUp connectivity check
//
// MetricsServer serves Prometheus metrics on a dedicated port so that
// operational data stays off the application listener.
package server

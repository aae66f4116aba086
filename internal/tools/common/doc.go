// Package common provides shared helpers for the ClickUp MCP tool packages:
// argument parsing, result formatting, client lookup, and the instrumented
// handler wrapper that records metrics, spans, and audit logs.
package common

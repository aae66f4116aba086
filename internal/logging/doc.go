// Package logging provides structured logging utilities for clickup-mcp.
//
// All components log through the Logger interface, backed by the standard
// library's slog via SlogAdapter. Attribute helpers keep key names consistent
// across the ClickUp client, the member resolver and the MCP tool handlers.
//
// # Usage Patterns
//
//	logger := logging.WithOperation(slog.Default(), "clickup.create_task")
//	logger.Info("task created", logging.List(listID), logging.Status("success"))
//
// Member identifiers may be email addresses, so they go through Identifier,
// which hashes anything containing '@':
//
//	logger.Warn("could not resolve member", logging.Identifier(id))
//
// API tokens are never logged directly; use SanitizeToken.
package logging

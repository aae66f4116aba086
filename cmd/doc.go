// Package cmd implements the command-line interface for clickup-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - api: Start the web API with health endpoints
//   - demo: Walk through member lookup, resolution and task assignment against a live workspace
//   - members: List, search, find and resolve workspace members
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd

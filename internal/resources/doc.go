// Package resources provides MCP resources for ClickUp workspace data.
// Resources are read-only data sources that MCP clients can fetch without a
// tool call:
//
//   - clickup://members: the current member roster across all teams,
//     grouped by role
//   - clickup://teams: the workspaces visible to the configured token
//
// Both are fetched fresh on every read.
package resources

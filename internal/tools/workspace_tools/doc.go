// Package workspace_tools provides MCP tools for navigating the ClickUp
// hierarchy: teams (workspaces), spaces, folders, and lists.
//
// Listing tools are always registered. clickup_create_space,
// clickup_create_folder and clickup_create_list are registered only when the
// server runs with write access.
package workspace_tools

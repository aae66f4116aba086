// Package member_tools exposes ClickUp workspace members to MCP clients.
//
// Tools:
//   - clickup_list_members: full roster, optionally filtered by role or activity
//   - clickup_search_members: substring search on username, email, and ID
//   - clickup_find_member: best single match for an identifier
//   - clickup_resolve_members: identifiers to numeric user IDs for task assignment
//   - clickup_list_list_members: users with access to a list
//
// All member tools are read-only.
package member_tools

// Package tasks_tools provides MCP tools for ClickUp tasks.
//
// Read-only tools (always available):
//   - clickup_list_tasks: list the tasks of a list
//   - clickup_get_tasks: get one or more tasks by ID (batch)
//
// Write tools (registered only when the server is not read-only):
//   - clickup_create_task: create a task, resolving assignees by username,
//     email, or numeric ID
//   - clickup_update_task: partial update, including adding and removing
//     assignees
//   - clickup_delete_tasks: delete one or more tasks (batch)
//
// Batch tools accept either a single ID or an array of IDs and report a
// per-item status:
//
//	{
//	  "total": 2,
//	  "successful": 1,
//	  "failed": 1,
//	  "results": [...]
//	}
//
// Dates accept RFC3339 timestamps, plain YYYY-MM-DD dates, or epoch
// milliseconds. Priorities follow ClickUp: 1 urgent, 2 high, 3 normal, 4 low.
package tasks_tools

// Package batch provides helpers for MCP tools that act on several ClickUp
// objects in one call, such as fetching or deleting a set of tasks.
//
// Tools accept either a single ID or a list of IDs, process each one
// independently, and report partial failures in a single JSON summary.
package batch

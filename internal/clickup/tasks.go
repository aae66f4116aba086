package clickup

import (
	"context"
	"net/http"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
)

// Tasks returns the tasks of a list.
func (c *Client) Tasks(ctx context.Context, listID string) ([]Task, error) {
	var resp tasksResponse
	if err := c.get(ctx, call{instrumentation.ResourceTask, instrumentation.OperationList}, pathf("/api/v2/list/%s/task", listID), &resp); err != nil {
		return nil, c.fail("clickup.tasks", "get tasks", err, logging.List(listID))
	}
	return resp.Tasks, nil
}

// Task returns a single task.
func (c *Client) Task(ctx context.Context, taskID string) (*Task, error) {
	var task Task
	if err := c.get(ctx, call{instrumentation.ResourceTask, instrumentation.OperationGet}, pathf("/api/v2/task/%s", taskID), &task); err != nil {
		return nil, c.fail("clickup.task", "get task", err, logging.Task(taskID))
	}
	return &task, nil
}

// CreateTask creates a task in a list. It is not idempotent; retrying a
// failed call may produce a duplicate.
func (c *Client) CreateTask(ctx context.Context, listID string, req TaskRequest) (*Task, error) {
	var task Task
	if err := c.do(ctx, call{instrumentation.ResourceTask, instrumentation.OperationCreate}, http.MethodPost, pathf("/api/v2/list/%s/task", listID), req, &task); err != nil {
		return nil, c.fail("clickup.create_task", "create task", err, logging.List(listID))
	}
	c.logger.Info("created task", logging.List(listID), logging.Task(task.ID), "assignees", len(req.Assignees))
	return &task, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, req TaskUpdate) (*Task, error) {
	var task Task
	if err := c.do(ctx, call{instrumentation.ResourceTask, instrumentation.OperationUpdate}, http.MethodPut, pathf("/api/v2/task/%s", taskID), req, &task); err != nil {
		return nil, c.fail("clickup.update_task", "update task", err, logging.Task(taskID))
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	if err := c.do(ctx, call{instrumentation.ResourceTask, instrumentation.OperationDelete}, http.MethodDelete, pathf("/api/v2/task/%s", taskID), nil, nil); err != nil {
		return c.fail("clickup.delete_task", "delete task", err, logging.Task(taskID))
	}
	return nil
}

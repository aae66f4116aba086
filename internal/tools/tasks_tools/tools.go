package tasks_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
	"github.com/teemow/clickup-mcp/internal/server"
	"github.com/teemow/clickup-mcp/internal/tools/batch"
	"github.com/teemow/clickup-mcp/internal/tools/common"
)

// RegisterTasksTools registers all task tools with the MCP server
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTasksTool := mcp.NewTool("clickup_list_tasks",
		mcp.WithDescription("List the tasks of a ClickUp list"),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The ID of the list"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithResource(
		"clickup_list_tasks", instrumentation.ResourceTask, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTasks(ctx, request, sc)
		}))

	getTasksTool := mcp.NewTool("clickup_get_tasks",
		mcp.WithDescription("Get details of one or more tasks"),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to retrieve"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(getTasksTool, common.InstrumentedToolHandlerWithResource(
		"clickup_get_tasks", instrumentation.ResourceTask, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTasks(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTaskTool := mcp.NewTool("clickup_create_task",
		mcp.WithDescription("Create a task in a ClickUp list. Assignees may be given as usernames, emails, or numeric user IDs; unknown assignees are skipped and reported."),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The ID of the list to create the task in"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Task name"),
		),
		mcp.WithString("description",
			mcp.Description("Task description"),
		),
		mcp.WithString("assignees",
			mcp.Description("Assignee identifier (string) or array of identifiers"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Priority: 1 urgent, 2 high, 3 normal, 4 low"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date (RFC3339, YYYY-MM-DD, or epoch milliseconds)"),
		),
		mcp.WithString("status",
			mcp.Description("Initial status, e.g. 'to do'"),
		),
		mcp.WithString("tags",
			mcp.Description("Tag (string) or array of tags"),
		),
		mcp.WithString("parent",
			mcp.Description("Parent task ID to create a subtask"),
		),
	)
	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithResource(
		"clickup_create_task", instrumentation.ResourceTask, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateTask(ctx, request, sc)
		}))

	updateTaskTool := mcp.NewTool("clickup_update_task",
		mcp.WithDescription("Update an existing task. Only the given fields change."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("name",
			mcp.Description("New task name"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("status",
			mcp.Description("New status"),
		),
		mcp.WithNumber("priority",
			mcp.Description("New priority: 1 urgent, 2 high, 3 normal, 4 low"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date (RFC3339, YYYY-MM-DD, or epoch milliseconds)"),
		),
		mcp.WithString("add_assignees",
			mcp.Description("Identifier (string) or array of identifiers to assign"),
		),
		mcp.WithString("remove_assignees",
			mcp.Description("Identifier (string) or array of identifiers to unassign"),
		),
	)
	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithResource(
		"clickup_update_task", instrumentation.ResourceTask, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateTask(ctx, request, sc)
		}))

	deleteTasksTool := mcp.NewTool("clickup_delete_tasks",
		mcp.WithDescription("Delete one or more tasks"),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Task ID (string) or array of task IDs to delete"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(deleteTasksTool, common.InstrumentedToolHandlerWithResource(
		"clickup_delete_tasks", instrumentation.ResourceTask, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteTasks(ctx, request, sc)
		}))

	return nil
}

func handleListTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	listID, err := common.RequireString(request.GetArguments(), "list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	tasks, err := client.Tasks(ctx, listID)
	if err != nil {
		return common.ErrorResult("list tasks", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d task(s) in list %s", len(tasks), listID), tasks)
}

func handleGetTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	taskIDs, err := batch.ParseStringOrArray(request.GetArguments()["task_ids"], "task_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	results := batch.ProcessBatch(ctx, taskIDs, func(ctx context.Context, taskID string) (string, error) {
		task, err := client.Task(ctx, taskID)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(task)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// CreateTaskResult reports the created task and any assignee that could not
// be resolved.
type CreateTaskResult struct {
	Task                *clickup.Task `json:"task"`
	UnresolvedAssignees []string      `json:"unresolved_assignees,omitempty"`
	// AssigneeError is set when the roster could not be fetched. The task
	// still carries the numeric assignees.
	AssigneeError string `json:"assignee_error,omitempty"`
}

// UpdateTaskResult is the clickup_update_task payload.
type UpdateTaskResult = CreateTaskResult

// resolveAssignees resolves identifiers for a task write. A roster failure
// is logged and returned as a message; the numeric IDs are kept.
func resolveAssignees(ctx context.Context, sc *server.ServerContext, identifiers []string) (members.Resolution, string) {
	res, err := sc.Members().Resolve(ctx, identifiers)
	common.RecordResolution(ctx, sc, identifiers, res)
	if err != nil {
		sc.Logger().Warn("assignee resolution incomplete", logging.Err(err),
			"resolved", len(res.IDs), "unresolved", len(res.Unresolved))
		return res, err.Error()
	}
	return res, ""
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	listID, err := common.RequireString(args, "list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequireString(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := clickup.TaskRequest{
		Name:        name,
		Description: common.GetString(args, "description"),
		Status:      common.GetString(args, "status"),
		Parent:      common.GetString(args, "parent"),
	}

	priority, err := common.GetIntPtr(args, "priority")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if priority != nil {
		if err := validPriority(*priority); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req.Priority = priority
	}

	if due := common.GetString(args, "due_date"); due != "" {
		ms, hasTime, err := parseDueDate(due)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		req.DueDate = &ms
		req.DueDateTime = &hasTime
	}

	if req.Tags, err = common.GetStringList(args, "tags"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	identifiers, err := common.GetStringList(args, "assignees")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	var result CreateTaskResult
	if len(identifiers) > 0 {
		var res members.Resolution
		res, result.AssigneeError = resolveAssignees(ctx, sc, identifiers)
		req.Assignees = res.IDs
		result.UnresolvedAssignees = res.Unresolved
	}

	if result.Task, err = client.CreateTask(ctx, listID, req); err != nil {
		return common.ErrorResult("create task", err), nil
	}

	return common.JSONResult("Task created successfully", result)
}

func handleUpdateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireString(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	update := clickup.TaskUpdate{
		Name:   common.GetString(args, "name"),
		Status: common.GetString(args, "status"),
	}
	if desc, ok := args["description"].(string); ok {
		update.Description = &desc
	}

	priority, err := common.GetIntPtr(args, "priority")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if priority != nil {
		if err := validPriority(*priority); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update.Priority = priority
	}

	if due := common.GetString(args, "due_date"); due != "" {
		ms, hasTime, err := parseDueDate(due)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update.DueDate = &ms
		update.DueDateTime = &hasTime
	}

	add, err := common.GetStringList(args, "add_assignees")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rem, err := common.GetStringList(args, "remove_assignees")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	var result UpdateTaskResult
	if len(add) > 0 || len(rem) > 0 {
		identifiers := append(append([]string{}, add...), rem...)
		var res members.Resolution
		res, result.AssigneeError = resolveAssignees(ctx, sc, identifiers)
		update.Assignees = splitAssignees(res, len(add))
		result.UnresolvedAssignees = res.Unresolved
	}

	if result.Task, err = client.UpdateTask(ctx, taskID, update); err != nil {
		return common.ErrorResult("update task", err), nil
	}
	return common.JSONResult("Task updated successfully", result)
}

// splitAssignees turns a resolution of add identifiers followed by remove
// identifiers back into the add/rem halves. Unresolved outcomes are skipped.
func splitAssignees(res members.Resolution, addCount int) *clickup.AssigneesUpdate {
	upd := &clickup.AssigneesUpdate{Add: []int64{}, Rem: []int64{}}
	for i, o := range res.Outcomes {
		if o.Match == members.MatchUnresolved {
			continue
		}
		if i < addCount {
			upd.Add = append(upd.Add, o.ID)
		} else {
			upd.Rem = append(upd.Rem, o.ID)
		}
	}
	return upd
}

func handleDeleteTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	taskIDs, err := batch.ParseStringOrArray(request.GetArguments()["task_ids"], "task_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	results := batch.ProcessBatch(ctx, taskIDs, func(ctx context.Context, taskID string) (string, error) {
		if err := client.DeleteTask(ctx, taskID); err != nil {
			return "", err
		}
		return "Task deleted successfully", nil
	})
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

package workspace_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/server"
	"github.com/teemow/clickup-mcp/internal/tools/common"
)

// TeamSummary is a team without its member payload.
type TeamSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	MemberCount int    `json:"member_count"`
}

// RegisterWorkspaceTools registers the hierarchy tools with the MCP server
func RegisterWorkspaceTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTeamsTool := mcp.NewTool("clickup_list_teams",
		mcp.WithDescription("List the ClickUp workspaces (teams) the configured token can access"),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listTeamsTool, common.InstrumentedToolHandlerWithResource(
		"clickup_list_teams", instrumentation.ResourceTeam, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTeams(ctx, request, sc)
		}))

	listSpacesTool := mcp.NewTool("clickup_list_spaces",
		mcp.WithDescription("List the spaces of a workspace"),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace (team)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listSpacesTool, common.InstrumentedToolHandlerWithResource(
		"clickup_list_spaces", instrumentation.ResourceSpace, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListSpaces(ctx, request, sc)
		}))

	listFoldersTool := mcp.NewTool("clickup_list_folders",
		mcp.WithDescription("List the folders of a space"),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The ID of the space"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listFoldersTool, common.InstrumentedToolHandlerWithResource(
		"clickup_list_folders", instrumentation.ResourceFolder, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFolders(ctx, request, sc)
		}))

	listListsTool := mcp.NewTool("clickup_list_lists",
		mcp.WithDescription("List the lists of a folder, or the folderless lists of a space. Provide exactly one of folder_id or space_id."),
		mcp.WithString("folder_id",
			mcp.Description("The ID of the folder"),
		),
		mcp.WithString("space_id",
			mcp.Description("The ID of the space, for lists that are not in a folder"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listListsTool, common.InstrumentedToolHandlerWithResource(
		"clickup_list_lists", instrumentation.ResourceList, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListLists(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createSpaceTool := mcp.NewTool("clickup_create_space",
		mcp.WithDescription("Create a space in a workspace"),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("The ID of the workspace (team)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Space name"),
		),
		mcp.WithBoolean("multiple_assignees",
			mcp.Description("Allow more than one assignee per task (default: true)"),
		),
	)
	s.AddTool(createSpaceTool, common.InstrumentedToolHandlerWithResource(
		"clickup_create_space", instrumentation.ResourceSpace, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateSpace(ctx, request, sc)
		}))

	createFolderTool := mcp.NewTool("clickup_create_folder",
		mcp.WithDescription("Create a folder in a space"),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The ID of the space"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name"),
		),
	)
	s.AddTool(createFolderTool, common.InstrumentedToolHandlerWithResource(
		"clickup_create_folder", instrumentation.ResourceFolder, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateFolder(ctx, request, sc)
		}))

	createListTool := mcp.NewTool("clickup_create_list",
		mcp.WithDescription("Create a list in a folder, or directly in a space when space_id is given instead. Provide exactly one of folder_id or space_id."),
		mcp.WithString("folder_id",
			mcp.Description("The ID of the folder"),
		),
		mcp.WithString("space_id",
			mcp.Description("The ID of the space, for a folderless list"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("List name"),
		),
		mcp.WithString("content",
			mcp.Description("List description"),
		),
	)
	s.AddTool(createListTool, common.InstrumentedToolHandlerWithResource(
		"clickup_create_list", instrumentation.ResourceList, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateList(ctx, request, sc)
		}))

	return nil
}

func handleListTeams(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	teams, err := client.Teams(ctx)
	if err != nil {
		return common.ErrorResult("list teams", err), nil
	}

	summaries := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		summaries = append(summaries, TeamSummary{ID: t.ID, Name: t.Name, Color: t.Color, MemberCount: len(t.Members)})
		if m := sc.Metrics(); m != nil {
			m.RecordRosterSize(ctx, t.ID, len(t.Members))
		}
	}
	return common.JSONResult(fmt.Sprintf("Found %d team(s)", len(summaries)), summaries)
}

func handleListSpaces(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	teamID, err := common.RequireString(request.GetArguments(), "team_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	spaces, err := client.Spaces(ctx, teamID)
	if err != nil {
		return common.ErrorResult("list spaces", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d space(s)", len(spaces)), spaces)
}

func handleListFolders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	spaceID, err := common.RequireString(request.GetArguments(), "space_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	folders, err := client.Folders(ctx, spaceID)
	if err != nil {
		return common.ErrorResult("list folders", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d folder(s)", len(folders)), folders)
}

// listParent returns the folder or space a list operation targets.
func listParent(args map[string]interface{}) (folderID, spaceID string, err error) {
	folderID = common.GetString(args, "folder_id")
	spaceID = common.GetString(args, "space_id")
	switch {
	case folderID == "" && spaceID == "":
		return "", "", fmt.Errorf("either folder_id or space_id is required")
	case folderID != "" && spaceID != "":
		return "", "", fmt.Errorf("provide only one of folder_id or space_id")
	}
	return folderID, spaceID, nil
}

func handleListLists(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	folderID, spaceID, err := listParent(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	var lists []clickup.List
	if folderID != "" {
		lists, err = client.Lists(ctx, folderID)
	} else {
		lists, err = client.FolderlessLists(ctx, spaceID)
	}
	if err != nil {
		return common.ErrorResult("list lists", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d list(s)", len(lists)), lists)
}

func handleCreateSpace(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	teamID, err := common.RequireString(args, "team_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequireString(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	multiple, err := common.GetBoolPtr(args, "multiple_assignees")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if multiple == nil {
		t := true
		multiple = &t
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	space, err := client.CreateSpace(ctx, teamID, clickup.SpaceRequest{Name: name, MultipleAssignees: multiple})
	if err != nil {
		return common.ErrorResult("create space", err), nil
	}
	return common.JSONResult("Space created successfully", space)
}

func handleCreateFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	spaceID, err := common.RequireString(args, "space_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequireString(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	folder, err := client.CreateFolder(ctx, spaceID, clickup.FolderRequest{Name: name})
	if err != nil {
		return common.ErrorResult("create folder", err), nil
	}
	return common.JSONResult("Folder created successfully", folder)
}

func handleCreateList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	folderID, spaceID, err := listParent(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := common.RequireString(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	req := clickup.ListRequest{Name: name, Content: common.GetString(args, "content")}
	var list *clickup.List
	if folderID != "" {
		list, err = client.CreateList(ctx, folderID, req)
	} else {
		list, err = client.CreateFolderlessList(ctx, spaceID, req)
	}
	if err != nil {
		return common.ErrorResult("create list", err), nil
	}
	return common.JSONResult("List created successfully", list)
}

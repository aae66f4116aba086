package member_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/members"
	"github.com/teemow/clickup-mcp/internal/server"
	"github.com/teemow/clickup-mcp/internal/tools/batch"
	"github.com/teemow/clickup-mcp/internal/tools/common"
)

// RosterView is returned by clickup_list_members.
type RosterView struct {
	Total   int                         `json:"total"`
	Members members.Roster              `json:"members,omitempty"`
	ByRole  map[string][]members.Member `json:"by_role,omitempty"`
}

// RegisterMemberTools registers all member tools with the MCP server.
func RegisterMemberTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listMembersTool := mcp.NewTool("clickup_list_members",
		mcp.WithDescription("List all members across the ClickUp workspaces visible to the configured token"),
		mcp.WithString("role",
			mcp.Description("Only return members with this role key (owner, admin, member, guest)"),
		),
		mcp.WithBoolean("active_only",
			mcp.Description("Only return members that have been active (default: false)"),
		),
		mcp.WithBoolean("group_by_role",
			mcp.Description("Group the result by role key instead of returning a flat list (default: false)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listMembersTool, common.InstrumentedToolHandlerWithResource(
		"clickup_list_members", instrumentation.ResourceMember, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListMembers(ctx, request, sc)
		}))

	searchMembersTool := mcp.NewTool("clickup_search_members",
		mcp.WithDescription("Search members whose username or email contains the query (case-insensitive), or whose ID contains it"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for, e.g. a name fragment or an email domain"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(searchMembersTool, common.InstrumentedToolHandlerWithResource(
		"clickup_search_members", instrumentation.ResourceMember, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMembers(ctx, request, sc)
		}))

	findMemberTool := mcp.NewTool("clickup_find_member",
		mcp.WithDescription("Find the best matching member for an identifier. Exact username, email or ID matches win over partial matches."),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("Username, email, or numeric user ID"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(findMemberTool, common.InstrumentedToolHandlerWithResource(
		"clickup_find_member", instrumentation.ResourceMember, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindMember(ctx, request, sc)
		}))

	resolveMembersTool := mcp.NewTool("clickup_resolve_members",
		mcp.WithDescription("Resolve usernames, emails or numeric IDs to ClickUp user IDs for task assignment. Numeric identifiers are accepted as-is. Unresolvable identifiers are reported and skipped."),
		mcp.WithString("identifiers",
			mcp.Required(),
			mcp.Description("Identifier (string) or array of identifiers to resolve"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(resolveMembersTool, common.InstrumentedToolHandlerWithResource(
		"clickup_resolve_members", instrumentation.ResourceMember, instrumentation.OperationResolve, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleResolveMembers(ctx, request, sc)
		}))

	listListMembersTool := mcp.NewTool("clickup_list_list_members",
		mcp.WithDescription("List the users who have access to a ClickUp list"),
		mcp.WithString("list_id",
			mcp.Required(),
			mcp.Description("The ID of the list"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
	s.AddTool(listListMembersTool, common.InstrumentedToolHandlerWithResource(
		"clickup_list_list_members", instrumentation.ResourceMember, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListListMembers(ctx, request, sc)
		}))

	return nil
}

func memberService(sc *server.ServerContext) (*members.Service, *mcp.CallToolResult) {
	if sc.Members() == nil {
		return nil, mcp.NewToolResultError(common.MissingTokenMessage)
	}
	return sc.Members(), nil
}

func handleListMembers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc, errResult := memberService(sc)
	if errResult != nil {
		return errResult, nil
	}
	args := request.GetArguments()

	activeOnly, err := common.GetBoolPtr(args, "active_only")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	groupByRole, err := common.GetBoolPtr(args, "group_by_role")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	roster, err := svc.Roster(ctx)
	if err != nil {
		return common.ErrorResult("list members", err), nil
	}
	if m := sc.Metrics(); m != nil {
		m.RecordRosterSize(ctx, "", len(roster))
	}

	if activeOnly != nil && *activeOnly {
		roster = roster.Active()
	}
	if role := strings.ToLower(common.GetString(args, "role")); role != "" {
		roster = filterRole(roster, role)
	}

	view := RosterView{Total: len(roster)}
	if groupByRole != nil && *groupByRole {
		view.ByRole = roster.ByRole()
	} else {
		view.Members = roster
	}
	return common.JSONResult("", view)
}

func filterRole(roster members.Roster, role string) members.Roster {
	out := make(members.Roster, 0, len(roster))
	for _, m := range roster {
		if strings.EqualFold(m.RoleKey, role) {
			out = append(out, m)
		}
	}
	return out
}

func handleSearchMembers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc, errResult := memberService(sc)
	if errResult != nil {
		return errResult, nil
	}

	query, err := common.RequireString(request.GetArguments(), "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	found, err := svc.SearchMembers(ctx, query)
	if err != nil {
		return common.ErrorResult("search members", err), nil
	}
	return common.JSONResult(fmt.Sprintf("Found %d member(s) matching %q", len(found), query), found)
}

func handleFindMember(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc, errResult := memberService(sc)
	if errResult != nil {
		return errResult, nil
	}

	identifier, err := common.RequireString(request.GetArguments(), "identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	member, err := svc.FindMember(ctx, identifier)
	if err != nil {
		return common.ErrorResult("find member", err), nil
	}
	if member == nil {
		return mcp.NewToolResultError(fmt.Sprintf("No member matches %q", identifier)), nil
	}
	return common.JSONResult("", member)
}

func handleResolveMembers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc, errResult := memberService(sc)
	if errResult != nil {
		return errResult, nil
	}

	identifiers, err := batch.ParseStringOrArray(request.GetArguments()["identifiers"], "identifiers")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := svc.Resolve(ctx, identifiers)
	if err != nil {
		return common.ErrorResult("resolve members", err), nil
	}

	common.RecordResolution(ctx, sc, identifiers, res)
	return common.JSONResult("", res)
}

func handleListListMembers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errResult := common.Client(sc)
	if errResult != nil {
		return errResult, nil
	}

	listID, err := common.RequireString(request.GetArguments(), "list_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	listMembers, err := client.ListMembers(ctx, listID)
	if err != nil {
		return common.ErrorResult("list members of list", err), nil
	}
	return common.JSONResult("", listMembers)
}

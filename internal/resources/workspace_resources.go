package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/clickup-mcp/internal/members"
	"github.com/teemow/clickup-mcp/internal/server"
)

const (
	MembersURI = "clickup://members"
	TeamsURI   = "clickup://teams"
)

// MembersDocument is the payload of the members resource.
type MembersDocument struct {
	Total   int                         `json:"total"`
	Active  int                         `json:"active"`
	ByRole  map[string][]members.Member `json:"by_role"`
	Members members.Roster              `json:"members"`
}

// TeamDocument is one entry of the teams resource.
type TeamDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

// RegisterWorkspaceResources registers the ClickUp resources.
func RegisterWorkspaceResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	membersResource := mcp.NewResource(
		MembersURI,
		"ClickUp Members",
		mcp.WithResourceDescription("Member roster across all ClickUp workspaces, grouped by role"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(membersResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleMembers(ctx, request, sc)
	})

	teamsResource := mcp.NewResource(
		TeamsURI,
		"ClickUp Teams",
		mcp.WithResourceDescription("ClickUp workspaces visible to the configured token"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(teamsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleTeams(ctx, request, sc)
	})

	return nil
}

func handleMembers(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	svc := sc.Members()
	if svc == nil {
		return nil, fmt.Errorf("no ClickUp client configured")
	}

	roster, err := svc.Roster(ctx)
	if err != nil {
		return nil, err
	}
	if m := sc.Metrics(); m != nil {
		m.RecordRosterSize(ctx, "", len(roster))
	}

	return jsonContents(request.Params.URI, MembersDocument{
		Total:   len(roster),
		Active:  len(roster.Active()),
		ByRole:  roster.ByRole(),
		Members: roster,
	})
}

func handleTeams(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	client := sc.Client()
	if client == nil {
		return nil, fmt.Errorf("no ClickUp client configured")
	}

	teams, err := client.Teams(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]TeamDocument, 0, len(teams))
	for _, t := range teams {
		docs = append(docs, TeamDocument{ID: t.ID, Name: t.Name, MemberCount: len(t.Members)})
	}
	return jsonContents(request.Params.URI, docs)
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

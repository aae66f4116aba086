package clickup

import (
	"context"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
)

// Teams returns every workspace the token can see, with their members.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var resp teamsResponse
	if err := c.get(ctx, call{instrumentation.ResourceTeam, instrumentation.OperationList}, "/api/v2/team", &resp); err != nil {
		return nil, c.fail("clickup.teams", "get teams", err)
	}
	return resp.Teams, nil
}

// Members fetches all teams and flattens their members into one roster,
// in team order then member order.
func (c *Client) Members(ctx context.Context) ([]members.Member, error) {
	teams, err := c.Teams(ctx)
	if err != nil {
		return nil, err
	}
	return FlattenMembers(teams), nil
}

// FlattenMembers converts team payloads into roster entries.
func FlattenMembers(teams []Team) []members.Member {
	out := make([]members.Member, 0)
	for _, team := range teams {
		for _, tm := range team.Members {
			out = append(out, toMember(team, tm.User))
		}
	}
	return out
}

func toMember(team Team, u User) members.Member {
	role := u.RoleKey
	if role == "" {
		role = members.DefaultRoleKey
	}
	return members.Member{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		RoleKey:  role,
		TeamID:   team.ID,
		TeamName: team.Name,
		IsActive: u.LastActive != "",
	}
}

// ListMembers returns the users with access to a list.
func (c *Client) ListMembers(ctx context.Context, listID string) ([]ListMember, error) {
	var resp listMembersResponse
	if err := c.get(ctx, call{instrumentation.ResourceMember, instrumentation.OperationList}, pathf("/api/v2/list/%s/member", listID), &resp); err != nil {
		return nil, c.fail("clickup.list_members", "get list members", err, logging.List(listID))
	}
	return resp.Members, nil
}

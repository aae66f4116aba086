package members

import (
	"strconv"
	"strings"
)

// DefaultRoleKey is used when the directory reports a member without a role.
const DefaultRoleKey = "member"

// Member is one entry of a workspace roster.
type Member struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleKey  string `json:"role_key"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	IsActive bool   `json:"is_active"`
}

// IDString returns the member ID in base 10.
func (m Member) IDString() string {
	return strconv.FormatInt(m.ID, 10)
}

// Roster is an ordered snapshot of members across all teams.
// Order matters: the first match wins during resolution.
type Roster []Member

// exact reports whether m matches identifier exactly. lower is the
// lowercased identifier, precomputed by the caller.
func (m Member) exact(identifier, lower string) bool {
	return strings.ToLower(m.Username) == lower ||
		strings.ToLower(m.Email) == lower ||
		m.IDString() == identifier
}

func (m Member) partial(lower string) bool {
	return strings.Contains(strings.ToLower(m.Username), lower) ||
		strings.Contains(strings.ToLower(m.Email), lower)
}

// ByRole groups the roster by role key, preserving roster order inside each group.
func (r Roster) ByRole() map[string][]Member {
	groups := make(map[string][]Member)
	for _, m := range r {
		role := m.RoleKey
		if role == "" {
			role = DefaultRoleKey
		}
		groups[role] = append(groups[role], m)
	}
	return groups
}

// Active returns the members that have been active at least once.
func (r Roster) Active() Roster {
	var out Roster
	for _, m := range r {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

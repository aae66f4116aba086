package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/clickup-mcp/internal/clickup"
	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
)

// Fixed inputs of the walkthrough.
var (
	demoSearches    = []string{"juan", "27cobalto.com"}
	demoLookups     = []string{"juan", "yarlen", "edinson", "melissa"}
	demoIdentifiers = []string{"juan", "yarlen@27cobalto.com", "81585056"}
)

const (
	demoSpacePrefix = "Test Space"
	demoListName    = "Member Assignment Test List"
	demoTaskName    = "Task assigned via natural language"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through member lookup and task assignment",
		Long: `Run a scripted walkthrough against the configured workspace:

  1. List every member across all teams
  2. Search members by partial username and by email domain
  3. Look up specific members
  4. Resolve a mix of username, email and numeric ID
  5. Create a task in the first "Test Space..." space assigned to the resolved members
  6. Print the team structure grouped by role

Step 5 writes to ClickUp. It is skipped when no space name starts with "Test Space".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(globals)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, os.Stderr)
			client, err := newClickUpClient(cfg, logger)
			if err != nil {
				return err
			}
			svc := members.NewService(client, logger, memberOptions(globals))
			return runDemo(cmd.Context(), cmd.OutOrStdout(), client, svc, logger)
		},
	}
}

// runDemo uses the empty-on-failure surface throughout: a failed call prints
// as an empty result and the walkthrough carries on.
func runDemo(ctx context.Context, out io.Writer, client *clickup.Client, svc *members.Service, logger logging.Logger) error {
	fmt.Fprintln(out, "ClickUp Members Management Demo")
	fmt.Fprintln(out, "===============================")

	fmt.Fprintln(out, "\n1. Getting all team members...")
	roster := clickup.Capture(svc.Roster(ctx)).OrEmpty(logger, "members.roster")
	fmt.Fprintf(out, "Found %d members across all teams:\n", len(roster))
	for _, m := range roster {
		status := "Inactive"
		if m.IsActive {
			status = "Active"
		}
		fmt.Fprintf(out, "   - %s (%s) | Role: %s | %s\n", m.Username, m.Email, m.RoleKey, status)
	}

	if len(roster) == 0 {
		fmt.Fprintln(out, "No members found. Check your API token and team access.")
		return nil
	}

	fmt.Fprintln(out, "\n2. Searching members...")
	for _, query := range demoSearches {
		found := members.SearchMembers(roster, query)
		fmt.Fprintf(out, "\nSearch for '%s': Found %d results:\n", query, len(found))
		for _, m := range found {
			fmt.Fprintf(out, "   - %s (%s)\n", m.Username, m.Email)
		}
	}

	fmt.Fprintln(out, "\n3. Looking up specific members...")
	for _, name := range demoLookups {
		if m := members.FindMember(roster, name); m != nil {
			fmt.Fprintf(out, "Found '%s': %s (ID: %d, Email: %s)\n", name, m.Username, m.ID, m.Email)
		} else {
			fmt.Fprintf(out, "Member '%s' not found\n", name)
		}
	}

	fmt.Fprintln(out, "\n4. Resolving member IDs for task assignment...")
	res := members.ResolveWithOptions(roster, demoIdentifiers, svc.Options(), logger)
	fmt.Fprintf(out, "Resolving identifiers: %s\n", strings.Join(demoIdentifiers, ", "))
	fmt.Fprintf(out, "Resolved to IDs: %s\n", joinIDs(res.IDs))

	if len(res.IDs) > 0 {
		demoCreateTask(ctx, out, client, res, logger)
	}

	fmt.Fprintln(out, "\n5. Current team structure:")
	for _, group := range groupByRoleInOrder(roster) {
		names := make([]string, 0, len(group.members))
		for _, m := range group.members {
			names = append(names, m.Username)
		}
		fmt.Fprintf(out, "   - %s: %s\n", group.role, strings.Join(names, ", "))
	}

	fmt.Fprintln(out, "\nMember management demo complete.")
	return nil
}

func demoCreateTask(ctx context.Context, out io.Writer, client *clickup.Client, res members.Resolution, logger logging.Logger) {
	teams := clickup.Capture(client.Teams(ctx)).OrEmpty(logger, "clickup.teams")
	if len(teams) == 0 {
		return
	}

	spaces := clickup.Capture(client.Spaces(ctx, teams[0].ID)).OrEmpty(logger, "clickup.spaces")
	var space *clickup.Space
	for i := range spaces {
		if strings.HasPrefix(spaces[i].Name, demoSpacePrefix) {
			space = &spaces[i]
			break
		}
	}
	if space == nil {
		fmt.Fprintf(out, "\nNo space starting with %q in %s, skipping task creation.\n", demoSpacePrefix, teams[0].Name)
		return
	}

	var list *clickup.List
	if lists := clickup.Capture(client.FolderlessLists(ctx, space.ID)).OrEmpty(logger, "clickup.folderless_lists"); len(lists) > 0 {
		list = &lists[0]
	} else {
		list = clickup.Capture(client.CreateFolderlessList(ctx, space.ID, clickup.ListRequest{
			Name:    demoListName,
			Content: "List for testing member assignments",
		})).OrEmpty(logger, "clickup.create_folderless_list")
	}
	if list == nil {
		return
	}

	fmt.Fprintln(out, "\n   Creating task with resolved member assignments...")
	priority := 2
	task := clickup.Capture(client.CreateTask(ctx, list.ID, clickup.TaskRequest{
		Name:        demoTaskName,
		Description: "This task was assigned using the identifiers: " + strings.Join(demoIdentifiers, ", "),
		Assignees:   res.IDs,
		Priority:    &priority,
		Tags:        []string{"api-test", "member-assignment"},
	})).OrEmpty(logger, "clickup.create_task")
	if task == nil {
		fmt.Fprintln(out, "   Failed to create task with assignments")
		return
	}

	assigned := make([]string, 0, len(task.Assignees))
	for _, a := range task.Assignees {
		assigned = append(assigned, a.Username)
	}
	fmt.Fprintf(out, "   Task created: %s (ID: %s)\n", task.Name, task.ID)
	fmt.Fprintf(out, "   Assigned to: %s\n", strings.Join(assigned, ", "))

	fmt.Fprintln(out, "\n   Assignment resolution summary:")
	for _, o := range res.Outcomes {
		if o.Match == members.MatchUnresolved {
			fmt.Fprintf(out, "   '%s' -> unresolved\n", o.Identifier)
			continue
		}
		for _, a := range task.Assignees {
			if a.ID == o.ID {
				fmt.Fprintf(out, "   '%s' -> %s (ID: %d)\n", o.Identifier, a.Username, a.ID)
				break
			}
		}
	}
}

type roleGroup struct {
	role    string
	members []members.Member
}

// groupByRoleInOrder groups members by role, ordering roles by first appearance.
func groupByRoleInOrder(roster members.Roster) []roleGroup {
	byRole := roster.ByRole()
	groups := make([]roleGroup, 0, len(byRole))
	seen := make(map[string]bool, len(byRole))
	for _, m := range roster {
		role := m.RoleKey
		if role == "" {
			role = members.DefaultRoleKey
		}
		if seen[role] {
			continue
		}
		seen[role] = true
		groups = append(groups, roleGroup{role: role, members: byRole[role]})
	}
	return groups
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}

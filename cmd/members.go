package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/clickup-mcp/internal/members"
)

type membersOptions struct {
	json bool
}

func newMembersCmd() *cobra.Command {
	var opts membersOptions

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List, search and resolve workspace members",
		Long: `Query the member roster of every workspace the token can see.

Identifiers may be a numeric user ID, a username, an email address or any
fragment of a username or email. Exact matches win over partial ones.`,
	}

	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print JSON instead of a table")

	cmd.AddCommand(
		newMembersListCmd(&opts),
		newMembersSearchCmd(&opts),
		newMembersFindCmd(&opts),
		newMembersResolveCmd(&opts),
	)

	return cmd
}

// newMemberService builds the service from flags and environment.
// Tests replace it to point at a fake API.
var newMemberService = func() (*members.Service, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, os.Stderr)
	client, err := newClickUpClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return members.NewService(client, logger, memberOptions(globals)), nil
}

func newMembersListCmd(opts *membersOptions) *cobra.Command {
	var (
		role       string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all members across teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newMemberService()
			if err != nil {
				return err
			}
			roster, err := svc.Roster(cmd.Context())
			if err != nil {
				return err
			}
			if activeOnly {
				roster = roster.Active()
			}
			if role != "" {
				roster = filterRole(roster, role)
			}
			return printRoster(cmd.OutOrStdout(), roster, opts.json)
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Only show members with this role key (owner, admin, member, guest)")
	cmd.Flags().BoolVar(&activeOnly, "active-only", false, "Only show members that have been active")

	return cmd
}

func newMembersSearchCmd(opts *membersOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search members by partial username or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newMemberService()
			if err != nil {
				return err
			}
			found, err := svc.SearchMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printRoster(cmd.OutOrStdout(), found, opts.json)
		},
	}
}

func newMembersFindCmd(opts *membersOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <identifier>",
		Short: "Find the best matching member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newMemberService()
			if err != nil {
				return err
			}
			m, err := svc.FindMember(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("no member matches %q", args[0])
			}
			return printRoster(cmd.OutOrStdout(), members.Roster{*m}, opts.json)
		},
	}
}

func newMembersResolveCmd(opts *membersOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <identifier>...",
		Short: "Resolve identifiers to member IDs",
		Long: `Resolve identifiers to member IDs in input order.

Numeric identifiers are accepted as-is unless --verify-numeric-ids is set.
Unresolved identifiers are skipped and listed separately.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newMemberService()
			if err != nil {
				return err
			}
			res, err := svc.Resolve(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printResolution(cmd.OutOrStdout(), res, opts.json)
		},
	}
}

func filterRole(roster members.Roster, role string) members.Roster {
	out := members.Roster{}
	for _, m := range roster {
		if strings.EqualFold(m.RoleKey, role) {
			out = append(out, m)
		}
	}
	return out
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRoster(w io.Writer, roster members.Roster, asJSON bool) error {
	if asJSON {
		if roster == nil {
			roster = members.Roster{}
		}
		return printJSON(w, roster)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE\tTEAM\tACTIVE")
	for _, m := range roster {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n", m.ID, m.Username, m.Email, m.RoleKey, m.TeamName, m.IsActive)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d member(s)\n", len(roster))
	return err
}

func printResolution(w io.Writer, res members.Resolution, asJSON bool) error {
	if asJSON {
		return printJSON(w, res)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTIFIER\tMATCH\tID\tUSERNAME")
	for _, o := range res.Outcomes {
		id, username := "-", "-"
		if o.Match != members.MatchUnresolved {
			id = fmt.Sprintf("%d", o.ID)
		}
		if o.Member != nil {
			username = o.Member.Username
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Identifier, o.Match, id, username)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Resolved to IDs: %s\n", joinIDs(res.IDs))
	return err
}

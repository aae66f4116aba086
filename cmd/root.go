package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the clickup-mcp application
var rootCmd = &cobra.Command{
	Use:   "clickup-mcp",
	Short: "ClickUp integration: MCP server, web API and member tools",
	Long: `clickup-mcp connects AI assistants and scripts to ClickUp.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (serve)
  - A small web API with health and connectivity checks (api)
  - A command-line client for workspace members (members)
  - A guided walkthrough of member resolution and task assignment (demo)

The ClickUp API token is read from --token or CLICKUP_API_TOKEN.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "clickup-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAPICmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newMembersCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/clickup-mcp/internal/logging"
	"github.com/teemow/clickup-mcp/internal/members"
	"github.com/teemow/clickup-mcp/internal/server"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFile == "" {
				return runGenerateDocs(cmd.OutOrStdout())
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			if err := runGenerateDocs(f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Documentation written to: %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(w io.Writer) error {
	// Tool definitions don't need a ClickUp client
	serverContext := server.NewServerContext(context.Background(), nil, logging.Discard(), members.Options{})
	defer func() {
		_ = serverContext.Shutdown()
	}()

	mcpSrv := newMCPServer()

	// Register with write operations enabled to document every tool
	if err := registerAllTools(mcpSrv, serverContext, false); err != nil {
		return err
	}

	serverTools := mcpSrv.ListTools()
	tools := make([]mcp.Tool, 0, len(serverTools))
	for _, serverTool := range serverTools {
		tools = append(tools, serverTool.Tool)
	}

	_, err := io.WriteString(w, generateToolsMarkdown(tools))
	return err
}

func generateToolsMarkdown(tools []mcp.Tool) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running clickup-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	toolsByCategory := groupToolsByCategory(tools)

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	categories := make([]string, 0, len(toolsByCategory))
	for category := range toolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		anchor := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", category, anchor))
	}
	sb.WriteString("\n")

	sb.WriteString("## Member Identifiers\n\n")
	sb.WriteString("Tools that accept people (`assignees`, `add_assignees`, `identifiers`, ...) resolve each entry against the workspace roster:\n\n")
	sb.WriteString("- **Numeric IDs** are used as-is unless the server runs with `--verify-numeric-ids`\n")
	sb.WriteString("- **Exact matches** on username, email or member ID win over partial matches\n")
	sb.WriteString("- **Partial matches** compare case-insensitive substrings of username and email\n")
	sb.WriteString("- **Unresolved entries** are skipped and reported back in the result\n\n")

	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category))

		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func groupToolsByCategory(tools []mcp.Tool) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)

	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		categories[category] = append(categories[category], tool)
	}

	return categories
}

func getCategoryFromToolName(name string) string {
	switch name {
	case "health_check", "echo":
		return "System Tools"
	}

	rest, ok := strings.CutPrefix(name, "clickup_")
	if !ok {
		return "Other"
	}

	switch {
	case strings.Contains(rest, "member"):
		return "Member Tools"
	case strings.Contains(rest, "task"):
		return "Task Tools"
	case strings.HasSuffix(rest, "_team"), strings.HasSuffix(rest, "_teams"),
		strings.HasSuffix(rest, "_space"), strings.HasSuffix(rest, "_spaces"),
		strings.HasSuffix(rest, "_folder"), strings.HasSuffix(rest, "_folders"),
		strings.HasSuffix(rest, "_list"), strings.HasSuffix(rest, "_lists"):
		return "Workspace Tools"
	default:
		return "Other"
	}
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### %s\n\n", tool.Name)

	if tool.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", tool.Description)
	}

	if hints := annotationHints(tool.Annotations); len(hints) > 0 {
		fmt.Fprintf(&sb, "_%s_\n\n", strings.Join(hints, ", "))
	}

	if len(tool.InputSchema.Properties) == 0 {
		return sb.String()
	}

	sb.WriteString("**Arguments:**\n")

	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, ok := tool.InputSchema.Properties[name].(map[string]interface{})
		if !ok {
			continue
		}

		requirement := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			requirement = "required"
		}

		desc, _ := prop["description"].(string)
		if desc == "" {
			desc = getPropertyType(prop) + " parameter"
		}
		fmt.Fprintf(&sb, "- `%s` (%s, %s): %s\n", name, getPropertyType(prop), requirement, desc)
	}
	sb.WriteString("\n")

	return sb.String()
}

// annotationHints describes the declared behavior of a tool. mcp.NewTool
// marks every tool destructive unless told otherwise, so only the read-only
// hint separates reads from writes.
func annotationHints(a mcp.ToolAnnotation) []string {
	if a.ReadOnlyHint != nil && *a.ReadOnlyHint {
		return []string{"read-only"}
	}
	return []string{"writes to ClickUp"}
}

func getPropertyType(prop map[string]interface{}) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

package xferbench

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	listHeading = lipgloss.NewStyle().Bold(true)
	groupNote   = lipgloss.NewStyle().Faint(true)
)

// runListCommands prints the command tree, path then description. Commands
// that only group subcommands are marked.
func runListCommands(out io.Writer, rootCmd *cobra.Command) {
	entries := collectCommandData(rootCmd, "", "")

	width := 0
	for _, e := range entries {
		if len(e.path) > width {
			width = len(e.path)
		}
	}

	fmt.Fprintln(out, listHeading.Render("Commands and Subcommands:"))
	for _, e := range entries {
		desc := e.description
		if e.group {
			desc += " " + groupNote.Render("(group)")
		}
		fmt.Fprintf(out, "  %-*s  %s\n", width, e.path, desc)
	}
}

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	path        string
	description string
	group       bool
}

// collectCommandData walks the command tree depth first, indenting each
// level by two spaces.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []commandInfo {
	if skipListing(cmd) {
		return nil
	}

	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	entries := []commandInfo{{
		path:        indent + fullPath,
		description: cmd.Short,
		group:       !cmd.Runnable() && cmd.HasAvailableSubCommands(),
	}}
	for _, sub := range cmd.Commands() {
		entries = append(entries, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return entries
}

// skipListing drops hidden commands and the ones cobra generates.
func skipListing(cmd *cobra.Command) bool {
	if cmd.Hidden {
		return true
	}
	switch cmd.Name() {
	case "help", "completion":
		return true
	}
	return false
}

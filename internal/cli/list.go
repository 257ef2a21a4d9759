// internal/cli/list.go
package xferbench

import (
	"fmt"

	"github.com/mwiater/xferbench/internal/appconfig"
	"github.com/mwiater/xferbench/internal/payload"
	"github.com/spf13/cobra"
)

// listCmd represents the 'list' command group.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
	Long:  `The 'list' command groups subcommands that list shapes, presets and commands.`,
}

// shapesCmd implements 'list shapes'.
var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "List payload shapes",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Payload shapes:")
		for _, s := range payload.Shapes() {
			fmt.Fprintf(out, "  %-18s %s\n", s, s.Description())
		}
	},
}

// presetsCmd implements 'list presets'.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List size/iteration presets",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Presets:")
		for _, p := range appconfig.Presets() {
			fmt.Fprintf(out, "  %-10s %s\n", p.Name, p.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(shapesCmd)
	listCmd.AddCommand(presetsCmd)
}

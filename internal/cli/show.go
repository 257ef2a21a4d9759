// internal/cli/show.go
package xferbench

import (
	"github.com/spf13/cobra"
)

// showCmd groups the display commands. On its own it shows the configuration,
// the only thing worth inspecting before a run.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved settings (defaults to 'show config')",
	Long:  `The 'show' command displays what a run would use. Without a subcommand it prints the merged configuration, including the size and iterations a preset resolves to.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfigCmd.Run(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// internal/cli/list_commands.go
package xferbench

import "github.com/spf13/cobra"

// commandsCmd implements 'list commands', printing the command tree with
// group commands marked.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runListCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
}

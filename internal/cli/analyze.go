// internal/cli/analyze.go
package xferbench

import (
	"github.com/mwiater/xferbench/internal/report"
	"github.com/spf13/cobra"
)

var analyzeOpts report.AnalyzeOptions

// analyzeCmd compares runs previously written with 'run --export'.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare exported runs grouped by shape and size",
	Long:  `The 'analyze' command reads JSON results written by 'run --export' and summarizes the method averages per payload shape and size.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report.Analyze(analyzeOpts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeOpts.InputDir, "input", "results", "directory of exported result JSON files")
	analyzeCmd.Flags().StringVar(&analyzeOpts.AnalysisPath, "output", "", "write the analysis as JSON to this file")
}

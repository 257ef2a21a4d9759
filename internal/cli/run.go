// internal/cli/run.go
package xferbench

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd runs one string-versus-buffer benchmark and reports the result.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the string vs buffer transfer benchmark",
	Long: `The 'run' command generates a payload, times round trips to a boundary worker
for direct string transfer and for buffer transfer, then prints a comparison.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		cfg := GetConfig()
		if cfg == nil {
			return errNoConfig
		}
		return runBenchmark(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), *cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("size", "s", 0, "payload size in bytes (0 = preset)")
	runCmd.Flags().IntP("iterations", "n", 0, "round trips per method (0 = preset)")
	runCmd.Flags().String("shape", "", "payload shape: random-printable, random-wide, repeated-pattern")
	runCmd.Flags().String("preset", "", "size/iteration preset: quick, standard, thorough, stress")
	runCmd.Flags().Int("timeout", 0, "seconds to wait for each response (0 = 30)")
	runCmd.Flags().Bool("tui", false, "show a live progress bar")
	runCmd.Flags().String("export", "", "write the result as JSON into this directory")
	runCmd.Flags().String("exportHTML", "", "write the result as an HTML page to this file")
	runCmd.Flags().String("metricsFile", "", "write Prometheus metrics in text format to this file")

	for _, name := range []string{"size", "iterations", "shape", "preset", "timeout", "tui", "export", "exportHTML", "metricsFile"} {
		_ = viper.BindPFlag(name, runCmd.Flags().Lookup(name))
	}
}

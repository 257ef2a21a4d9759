// internal/cli/show_config.go
package xferbench

import (
	"github.com/mwiater/xferbench/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements 'show config', which displays the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Size:           viper.GetInt("size"),
			Iterations:     viper.GetInt("iterations"),
			Shape:          viper.GetString("shape"),
			Preset:         viper.GetString("preset"),
			TimeoutSeconds: viper.GetInt("timeout"),
			Debug:          viper.GetBool("debug"),
			JSONMode:       viper.GetBool("jsonMode"),
			LogFile:        viper.GetString("logFile"),
		}
		file := ""
		if cfg := GetConfig(); cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, GetConfig(), fallback)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}

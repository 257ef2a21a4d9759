// internal/cli/root.go
package xferbench

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/mwiater/xferbench/internal/appconfig"
	"github.com/mwiater/xferbench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// boolKeys are copied from the config into unchanged flags so pflag and viper agree.
var boolKeys = []string{"debug", "jsonMode", "tui"}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "xferbench",
	Short:        "xferbench: string vs buffer transfer micro-benchmark",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		loadedFrom, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the config value into the flag.
		for _, name := range boolKeys {
			if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}

		// 3) Materialize the merged configuration (flags > config > defaults).
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = loadedFrom
		currentConfig = &cfg

		logging.SetDebug(cfg.Debug)
		logging.SetQuiet(cfg.JSONMode || cfg.TUI)
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "log boundary traffic and dump the result")
	rootCmd.PersistentFlags().Bool("jsonMode", false, "print the result as JSON")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("jsonMode", rootCmd.PersistentFlags().Lookup("jsonMode"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig points viper at the config file named by --config.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and returns the file it came from.
// When the default file is missing, appconfig.Load looks for the legacy
// xferbench.json; if neither exists the path is empty and flags and defaults
// still apply.
func ensureConfigLoaded() (string, error) {
	err := viper.ReadInConfig()
	if err == nil {
		return viper.ConfigFileUsed(), nil
	}
	if !configNotFound(err) {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfgFile != appconfig.DefaultConfigPath {
		return "", nil
	}

	legacy, err := appconfig.Load("")
	if err != nil {
		if errors.Is(err, appconfig.ErrNoConfig) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	logging.LogEvent("Using legacy config file %s", legacy.ConfigPath)
	viper.SetConfigFile(legacy.ConfigPath)
	if err := viper.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return legacy.ConfigPath, nil
}

func configNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// GetConfig returns the loaded application configuration.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

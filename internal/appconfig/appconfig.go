// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/xferbench/internal/benchmark"
	"github.com/mwiater/xferbench/internal/payload"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path checked when the default file is missing.
	legacyConfigPath = "xferbench.json"
	// defaultLogFile is used when the config omits logFile.
	defaultLogFile = "xferbench.log"
	// defaultShape is the payload shape used when none is configured.
	defaultShape = payload.RandomPrintable
)

// ErrNoConfig is returned by Load when neither the requested nor the legacy file exists.
var ErrNoConfig = errors.New("no configuration file found")

// Config represents the top-level application configuration.
type Config struct {
	Size           int    `json:"size,omitempty"`
	Iterations     int    `json:"iterations,omitempty"`
	Shape          string `json:"shape,omitempty"`
	Preset         string `json:"preset,omitempty"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`
	Debug          bool   `json:"debug"`
	JSONMode       bool   `json:"jsonMode"`
	TUI            bool   `json:"tui"`
	LogFile        string `json:"logFile,omitempty"`
	ExportDir      string `json:"export,omitempty" mapstructure:"export"`
	ExportHTML     string `json:"exportHTML,omitempty"`
	MetricsFile    string `json:"metricsFile,omitempty"`
	ConfigPath     string `json:"-" mapstructure:"-"`
}

// IterationTimeout returns how long one round trip may take before the run fails.
func (c Config) IterationTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return benchmark.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// ShapeName returns the configured payload shape, or the default shape.
func (c Config) ShapeName() string {
	if s := strings.TrimSpace(c.Shape); s != "" {
		return s
	}
	return defaultShape.String()
}

// Benchmark resolves the run parameters. Explicit size and iterations win over
// the preset, which in turn supplies anything left at zero.
func (c Config) Benchmark() (benchmark.Configuration, error) {
	var problems []string
	preset, ok := PresetFor(c.Preset)
	if !ok {
		problems = append(problems, fmt.Sprintf("unknown preset %q (available: %s)", c.Preset, strings.Join(PresetNames(), ", ")))
	}
	shape, err := payload.ParseShape(c.ShapeName())
	if err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return benchmark.Configuration{}, &benchmark.ConfigurationError{Problems: problems}
	}

	cfg := benchmark.Configuration{
		Size:       c.Size,
		Iterations: c.Iterations,
		Shape:      shape,
		Timeout:    c.IterationTimeout(),
	}
	if cfg.Size == 0 {
		cfg.Size = preset.Size
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = preset.Iterations
	}
	return cfg, nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w (searched %q and %q)", ErrNoConfig, DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("%w at %q", ErrNoConfig, path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(benchmark.DefaultTimeout.Seconds())
	}

	return config, nil
}

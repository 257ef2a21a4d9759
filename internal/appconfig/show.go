package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	bench, err := cfg.Benchmark()
	if err != nil {
		fmt.Fprintf(out, "  Invalid:         %v\n", err)
	} else {
		fmt.Fprintf(out, "  Size:            %d bytes\n", bench.Size)
		fmt.Fprintf(out, "  Iterations:      %d\n", bench.Iterations)
		fmt.Fprintf(out, "  Shape:           %s\n", bench.Shape)
	}
	preset := cfg.Preset
	if preset == "" {
		preset = string(PresetStandard)
	}
	fmt.Fprintf(out, "  Preset:          %s\n", preset)
	fmt.Fprintf(out, "  Timeout:         %s\n", cfg.IterationTimeout())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:       %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  TUI:             %v\n", cfg.TUI)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	if cfg.ExportDir != "" {
		fmt.Fprintf(out, "  Export Dir:      %s\n", cfg.ExportDir)
	}
	if cfg.ExportHTML != "" {
		fmt.Fprintf(out, "  Export HTML:     %s\n", cfg.ExportHTML)
	}
	if cfg.MetricsFile != "" {
		fmt.Fprintf(out, "  Metrics File:    %s\n", cfg.MetricsFile)
	}
}

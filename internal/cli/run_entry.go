package xferbench

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mwiater/xferbench/internal/appconfig"
	"github.com/mwiater/xferbench/internal/benchmark"
	"github.com/mwiater/xferbench/internal/logging"
	"github.com/mwiater/xferbench/internal/report"
	"github.com/mwiater/xferbench/internal/tui"
)

var errNoConfig = errors.New("configuration not loaded")

// newOrchestrator builds the orchestrator for one command invocation.
var newOrchestrator = func(obs benchmark.ProgressObserver) *benchmark.Orchestrator {
	return benchmark.New(benchmark.WithObserver(obs))
}

// runBenchmark executes one run and writes every requested output.
func runBenchmark(ctx context.Context, in io.Reader, out io.Writer, cfg appconfig.Config) error {
	bench, err := cfg.Benchmark()
	if err != nil {
		return err
	}

	var orch *benchmark.Orchestrator
	execute := func(ctx context.Context, obs benchmark.ProgressObserver) (*benchmark.Result, error) {
		orch = newOrchestrator(obs)
		return orch.Run(ctx, bench)
	}

	var result *benchmark.Result
	if cfg.TUI {
		result, err = tui.Run(ctx, "String vs Buffer Transfer", in, out, execute)
	} else {
		result, err = execute(ctx, logObserver())
	}
	if orch != nil {
		defer orch.Close()
	}
	if err != nil {
		return err
	}

	if err := writeReport(out, cfg, result); err != nil {
		return err
	}
	return writeExports(cfg, orch, result)
}

func writeReport(out io.Writer, cfg appconfig.Config, result *benchmark.Result) error {
	var err error
	if cfg.JSONMode {
		err = report.JSON(out, result)
	} else {
		err = report.Text(out, result)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if cfg.Debug && !cfg.JSONMode {
		if err := report.Debug(out, result); err != nil {
			return fmt.Errorf("write debug dump: %w", err)
		}
	}
	return nil
}

func writeExports(cfg appconfig.Config, orch *benchmark.Orchestrator, result *benchmark.Result) error {
	if cfg.ExportDir != "" {
		path, err := benchmark.WriteResult(cfg.ExportDir, result)
		if err != nil {
			return fmt.Errorf("export result: %w", err)
		}
		logging.LogEvent("Results exported to %s", path)
	}
	if cfg.ExportHTML != "" {
		if err := report.WriteHTML(cfg.ExportHTML, result); err != nil {
			return fmt.Errorf("export html: %w", err)
		}
	}
	if cfg.MetricsFile != "" && orch != nil {
		if err := orch.Recorder().WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logging.LogEvent("Metrics written to %s", cfg.MetricsFile)
	}
	return nil
}

// logObserver logs progress every tenth of the run and each iteration in debug mode.
func logObserver() benchmark.ProgressObserver {
	lastStep := -1
	return benchmark.ProgressFunc(func(p benchmark.Progress) {
		logging.LogDebug("%s iteration %d: %.2fms", p.Method.DisplayName(), p.Iteration, float64(p.Elapsed.Microseconds())/1000)
		step := int(p.Fraction * 10)
		if step == lastStep {
			return
		}
		lastStep = step
		logging.LogEvent("Progress: %d/%d (%.0f%%)", p.Completed, p.Total, p.Fraction*100)
	})
}

package xferbench

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/xferbench/internal/appconfig"
	"github.com/mwiater/xferbench/internal/benchmark"
)

func TestRunCommandJSON(t *testing.T) {
	useConfig(t, `{"shape": "repeated-pattern"}`)
	dir := t.TempDir()
	exportDir := filepath.Join(dir, "export")
	htmlPath := filepath.Join(dir, "report.html")
	metricsPath := filepath.Join(dir, "xferbench.prom")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{
		"run", "--jsonMode",
		"--logFile", filepath.Join(dir, "xferbench.log"),
		"-s", "1024", "-n", "3",
		"--export", exportDir,
		"--exportHTML", htmlPath,
		"--metricsFile", metricsPath,
	})
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	var result benchmark.Result
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, buf.String())
	}
	if result.PayloadLength != 1024 {
		t.Fatalf("expected payload length 1024, got %d", result.PayloadLength)
	}
	if len(result.String.Samples) != 3 || len(result.Buffer.Samples) != 3 {
		t.Fatalf("expected 3 samples per method, got %d/%d", len(result.String.Samples), len(result.Buffer.Samples))
	}

	entries, err := os.ReadDir(exportDir)
	if err != nil || len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".json") {
		t.Fatalf("expected one JSON export, got %v (%v)", entries, err)
	}
	if _, err := os.Stat(htmlPath); err != nil {
		t.Fatalf("expected HTML report: %v", err)
	}
	metrics, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(metrics), "xferbench_round_trip_seconds") {
		t.Fatalf("expected round trip histogram in metrics file, got %s", metrics)
	}
}

func TestRunCommandRejectsBadShape(t *testing.T) {
	useConfig(t, `{}`)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"run", "--logFile", filepath.Join(t.TempDir(), "x.log"), "--shape", "emoji"})
	if _, err := rootCmd.ExecuteC(); !errors.Is(err, benchmark.ErrConfiguration) {
		t.Fatalf("expected a configuration error for an unknown shape, got %v", err)
	}

	resetFlag("shape")
	rootCmd.SetArgs([]string{"run", "--logFile", filepath.Join(t.TempDir(), "x.log"), "--preset", "huge"})
	if _, err := rootCmd.ExecuteC(); !errors.Is(err, benchmark.ErrConfiguration) {
		t.Fatalf("expected a configuration error for an unknown preset, got %v", err)
	}
}

func TestRunBenchmarkConfigurationError(t *testing.T) {
	var buf bytes.Buffer
	err := runBenchmark(context.Background(), nil, &buf, appconfig.Config{Size: -5, Iterations: 1})
	if !errors.Is(err, benchmark.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no report on failure, got %s", buf.String())
	}
}

func TestRunBenchmarkTextReport(t *testing.T) {
	var progressed int
	prev := newOrchestrator
	newOrchestrator = func(obs benchmark.ProgressObserver) *benchmark.Orchestrator {
		return benchmark.New(benchmark.WithObserver(benchmark.ProgressFunc(func(p benchmark.Progress) {
			progressed++
			obs.Progress(p)
		})))
	}
	t.Cleanup(func() { newOrchestrator = prev })

	var buf bytes.Buffer
	cfg := appconfig.Config{Size: 256, Iterations: 2, Shape: "random-wide"}
	if err := runBenchmark(context.Background(), nil, &buf, cfg); err != nil {
		t.Fatalf("runBenchmark error: %v", err)
	}
	if progressed != 4 {
		t.Fatalf("expected 4 progress events, got %d", progressed)
	}
	for _, want := range []string{"Direct String Transfer", "Buffer Transfer", "Winner:"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in report, got %s", want, buf.String())
		}
	}
}

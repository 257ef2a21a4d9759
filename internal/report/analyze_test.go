package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/xferbench/internal/benchmark"
	"github.com/mwiater/xferbench/internal/payload"
)

func TestBuildAnalysisGroupsByShapeAndSize(t *testing.T) {
	a := sampleResult(t)
	b := sampleResult(t)
	b.RunID = "run-5678"
	b.String.Summary.Average = 1
	c := sampleResult(t)
	c.RunID = "run-9999"
	c.Configuration.Shape = payload.RandomWide

	analysis := BuildAnalysis([]*benchmark.Result{a, b, c})
	if analysis.Runs != 3 || len(analysis.Groups) != 2 {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}

	wide, repeated := analysis.Groups[0], analysis.Groups[1]
	if wide.Shape != payload.RandomWide || repeated.Shape != payload.RepeatedPattern {
		t.Fatalf("expected groups sorted by shape, got %s then %s", wide.Shape, repeated.Shape)
	}
	if repeated.Runs != 2 || repeated.StringWins != 1 || repeated.BufferWins != 1 {
		t.Fatalf("unexpected repeated group: %+v", repeated)
	}
	if repeated.String.Mean != 3 || repeated.String.Min != 1 || repeated.String.Max != 5 {
		t.Fatalf("unexpected string stats: %+v", repeated.String)
	}
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	for _, id := range []string{"aaaaaaaa-1", "bbbbbbbb-2"} {
		r := sampleResult(t)
		r.RunID = id
		if _, err := benchmark.WriteResult(dir, r); err != nil {
			t.Fatalf("WriteResult: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`{"hello": "world"}`), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	analysisPath := filepath.Join(t.TempDir(), "out", "analysis.json")
	var buf bytes.Buffer
	if err := Analyze(AnalyzeOptions{InputDir: dir, AnalysisPath: analysisPath}, &buf); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Transfer Analysis (2 runs)", "repeated-pattern", "1.0MB", "0 / 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	raw, err := os.ReadFile(analysisPath)
	if err != nil {
		t.Fatalf("read analysis: %v", err)
	}
	var decoded Analysis
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if decoded.Runs != 2 || len(decoded.Groups) != 1 {
		t.Fatalf("unexpected decoded analysis: %+v", decoded)
	}
}

func TestAnalyzeEmptyDir(t *testing.T) {
	var buf bytes.Buffer
	if err := Analyze(AnalyzeOptions{InputDir: t.TempDir()}, &buf); err == nil {
		t.Fatalf("expected error for a directory without results")
	}
}

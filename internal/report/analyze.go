package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwiater/xferbench/internal/benchmark"
	"github.com/mwiater/xferbench/internal/logging"
	"github.com/mwiater/xferbench/internal/metrics"
	"github.com/mwiater/xferbench/internal/payload"
)

// AnalyzeOptions captures the inputs for comparing exported runs.
type AnalyzeOptions struct {
	InputDir     string
	AnalysisPath string
}

// Analysis groups exported runs by payload shape and size.
type Analysis struct {
	Runs   int             `json:"runs"`
	Groups []GroupAnalysis `json:"groups"`
}

// GroupAnalysis aggregates the per-run averages of one shape and size.
type GroupAnalysis struct {
	Shape      payload.Shape       `json:"shape"`
	Size       int                 `json:"size"`
	Runs       int                 `json:"runs"`
	String     metrics.RunningStat `json:"string"`
	Buffer     metrics.RunningStat `json:"buffer"`
	StringWins int                 `json:"stringWins"`
	BufferWins int                 `json:"bufferWins"`
}

// Analyze loads exported results from opts.InputDir, prints a comparison
// table and optionally writes the analysis as JSON.
func Analyze(opts AnalyzeOptions, out io.Writer) error {
	results, err := LoadResults(opts.InputDir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no exported results found in %s", opts.InputDir)
	}

	analysis := BuildAnalysis(results)
	if opts.AnalysisPath != "" {
		if err := writeAnalysisJSON(opts.AnalysisPath, analysis); err != nil {
			return err
		}
		fmt.Fprintf(out, "Analysis JSON written to %s\n", opts.AnalysisPath)
	}

	_, err = io.WriteString(out, analysisTable(analysis)+"\n")
	return err
}

// LoadResults decodes every exported result in dir. Files that are not
// results are logged and skipped.
func LoadResults(dir string) ([]*benchmark.Result, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	results := make([]*benchmark.Result, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var r benchmark.Result
		if err := json.Unmarshal(raw, &r); err != nil || r.RunID == "" {
			logging.LogEvent("Skipping %s: not an exported result", filepath.Base(path))
			continue
		}
		results = append(results, &r)
	}
	return results, nil
}

// BuildAnalysis folds each run's method averages into its shape/size group.
func BuildAnalysis(results []*benchmark.Result) Analysis {
	type key struct {
		shape payload.Shape
		size  int
	}
	groups := make(map[key]*GroupAnalysis)
	for _, r := range results {
		k := key{shape: r.Configuration.Shape, size: r.Configuration.Size}
		g, ok := groups[k]
		if !ok {
			g = &GroupAnalysis{Shape: k.shape, Size: k.size}
			groups[k] = g
		}
		g.Runs++
		g.String.Update(r.String.Summary.Average)
		g.Buffer.Update(r.Buffer.Summary.Average)
		if r.Winner().Method == r.String.Method {
			g.StringWins++
		} else {
			g.BufferWins++
		}
	}

	analysis := Analysis{Runs: len(results)}
	for _, g := range groups {
		analysis.Groups = append(analysis.Groups, *g)
	}
	sort.Slice(analysis.Groups, func(i, j int) bool {
		a, b := analysis.Groups[i], analysis.Groups[j]
		if a.Shape != b.Shape {
			return a.Shape < b.Shape
		}
		return a.Size < b.Size
	})
	return analysis
}

func analysisTable(a Analysis) string {
	rows := make([][]string, 0, len(a.Groups))
	for _, g := range a.Groups {
		rows = append(rows, []string{
			g.Shape.String(),
			formatMB(g.Size),
			formatCount(g.Runs),
			fmt.Sprintf("%s ± %.2f", formatMillis(g.String.Mean), g.String.StdDev()),
			fmt.Sprintf("%s ± %.2f", formatMillis(g.Buffer.Mean), g.Buffer.StdDev()),
			fmt.Sprintf("%d / %d", g.StringWins, g.BufferWins),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Shape", "Size", "Runs", "String Avg", "Buffer Avg", "Wins (S/B)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Transfer Analysis (%d runs)", a.Runs)))
	b.WriteString("\n\n")
	b.WriteString(t.String())
	return b.String()
}

func writeAnalysisJSON(path string, analysis Analysis) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create directory for %s: %w", path, err)
		}
	}

	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal analysis JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write analysis JSON %s: %w", path, err)
	}
	return nil
}

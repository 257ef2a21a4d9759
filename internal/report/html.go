package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/mwiater/xferbench/internal/benchmark"
	"github.com/mwiater/xferbench/internal/logging"
)

type htmlMethod struct {
	Name    string
	Winner  bool
	Average string
	Minimum string
	Maximum string
	Median  string
	Samples []string
}

type htmlReportData struct {
	Title         string
	RunID         string
	Configuration string
	StringLength  string
	Methods       []htmlMethod
	Winner        string
	Difference    string
}

// HTML renders a standalone results page.
func HTML(w io.Writer, r *benchmark.Result) error {
	var buf bytes.Buffer
	if err := htmlReportTemplate.Execute(&buf, htmlView(r)); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteHTML renders the results page to path, creating parent directories.
func WriteHTML(path string, r *benchmark.Result) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html report: %w", err)
	}
	defer file.Close()
	if err := HTML(file, r); err != nil {
		return err
	}
	logging.LogEvent("HTML report written to %s", path)
	return nil
}

func htmlView(r *benchmark.Result) htmlReportData {
	cfg := r.Configuration
	winner := r.Winner()
	diffMs, diffPct := r.Difference()

	methods := make([]htmlMethod, 0, 2)
	for _, m := range r.Methods() {
		samples := make([]string, 0, len(m.Samples))
		for _, v := range m.Samples {
			samples = append(samples, formatMillis(v))
		}
		methods = append(methods, htmlMethod{
			Name:    m.Name,
			Winner:  m.Method == winner.Method,
			Average: formatMillis(m.Summary.Average),
			Minimum: formatMillis(m.Summary.Minimum),
			Maximum: formatMillis(m.Summary.Maximum),
			Median:  formatMillis(m.Summary.Median),
			Samples: samples,
		})
	}

	return htmlReportData{
		Title:         "xferbench: String vs Buffer Transfer",
		RunID:         r.RunID,
		Configuration: fmt.Sprintf("%s, %d iterations, %s", formatMB(cfg.Size), cfg.Iterations, cfg.Shape),
		StringLength:  formatCount(r.PayloadLength) + " characters",
		Methods:       methods,
		Winner:        winner.Name,
		Difference:    fmt.Sprintf("%s (%.1f%%)", formatMillis(diffMs), diffPct),
	}
}

var htmlReportTemplate = template.Must(template.New("transfer-report").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(htmlReportTemplateHTML))

const htmlReportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root { --primary: #334155; --accent: #3B82F6; --light: #F1F5F9; --success: #10B981; --border: #E2E8F0; }
    body { font-family: system-ui, sans-serif; background: var(--light); color: #0F172A; margin: 2rem; }
    h1 { color: var(--primary); }
    .stats, .result-section { background: #fff; border: 1px solid var(--border); border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
    .stat-item, .result-item { display: flex; justify-content: space-between; padding: 0.25rem 0; }
    .result-section.winner { border: 2px solid var(--success); }
    .time { font-family: ui-monospace, monospace; color: var(--accent); }
    .samples { color: #64748B; font-size: 0.85rem; }
  </style>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <div class="stats">
    <div class="stat-item"><span><strong>Test Configuration:</strong></span><span>{{ .Configuration }}</span></div>
    <div class="stat-item"><span><strong>String Length:</strong></span><span>{{ .StringLength }}</span></div>
    <div class="stat-item"><span><strong>Run:</strong></span><span>{{ .RunID }}</span></div>
  </div>
  {{ range $i, $m := .Methods }}
  <div class="result-section{{ if $m.Winner }} winner{{ end }}">
    <h3>Method {{ inc $i }}: {{ $m.Name }}</h3>
    <div class="result-item"><span>Average Time:</span><span class="time">{{ $m.Average }}</span></div>
    <div class="result-item"><span>Min Time:</span><span class="time">{{ $m.Minimum }}</span></div>
    <div class="result-item"><span>Max Time:</span><span class="time">{{ $m.Maximum }}</span></div>
    <div class="result-item"><span>Median Time:</span><span class="time">{{ $m.Median }}</span></div>
    <div class="samples">Samples: {{ range $j, $s := $m.Samples }}{{ if $j }}, {{ end }}{{ $s }}{{ end }}</div>
  </div>
  {{ end }}
  <div class="stats">
    <div class="stat-item"><span><strong>Winner:</strong></span><span>{{ .Winner }}</span></div>
    <div class="stat-item"><span><strong>Speed Difference:</strong></span><span>{{ .Difference }}</span></div>
  </div>
</body>
</html>
`

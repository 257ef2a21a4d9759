package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/mwiater/xferbench/internal/benchmark"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	winnerCell  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("34")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	winnerText = color.New(color.FgGreen, color.Bold).SprintFunc()
	faintText  = color.New(color.Faint).SprintFunc()
)

// Text renders the human-readable summary: configuration, a statistics table
// with the faster method highlighted, and the winner with the speed difference.
func Text(w io.Writer, r *benchmark.Result) error {
	cfg := r.Configuration
	winner := r.Winner()
	diffMs, diffPct := r.Difference()

	var b strings.Builder
	b.WriteString(titleStyle.Render("String vs Buffer Transfer Benchmark"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s, %d iterations, %s\n", labelStyle.Render("Test Configuration:"), formatMB(cfg.Size), cfg.Iterations, cfg.Shape)
	fmt.Fprintf(&b, "%s %s characters (%s bytes)\n", labelStyle.Render("String Length:"), formatCount(r.PayloadLength), formatCount(r.PayloadBytes))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Run:"), faintText(fmt.Sprintf("%s in %s", r.RunID, r.Elapsed.Round(time.Millisecond))))

	b.WriteString(statsTable(r, winner))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Winner:"), winnerText(winner.Name))
	fmt.Fprintf(&b, "%s %s (%.1f%%)\n", labelStyle.Render("Speed Difference:"), formatMillis(diffMs), diffPct)

	_, err := io.WriteString(w, b.String())
	return err
}

func statsTable(r *benchmark.Result, winner benchmark.MethodResult) string {
	methods := r.Methods()
	headers := []string{"Metric"}
	winnerCol := 0
	for i, m := range methods {
		headers = append(headers, m.Name)
		if m.Method == winner.Method {
			winnerCol = i + 1
		}
	}

	rows := [][]string{
		{"Average Time"},
		{"Min Time"},
		{"Max Time"},
		{"Median Time"},
	}
	for _, m := range methods {
		s := m.Summary
		rows[0] = append(rows[0], formatMillis(s.Average))
		rows[1] = append(rows[1], formatMillis(s.Minimum))
		rows[2] = append(rows[2], formatMillis(s.Maximum))
		rows[3] = append(rows[3], formatMillis(s.Median))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == winnerCol:
				return winnerCell
			}
			return cellStyle
		})
	return t.String()
}

// Package report renders benchmark results for terminals, files and tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mwiater/xferbench/internal/benchmark"
)

var numbers = message.NewPrinter(language.English)

// JSON writes the result as indented JSON.
func JSON(w io.Writer, r *benchmark.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// Debug pretty-prints the full result structure.
func Debug(w io.Writer, r *benchmark.Result) error {
	_, err := pp.Fprintln(w, r)
	return err
}

func formatCount(n int) string {
	return numbers.Sprintf("%d", n)
}

func formatMB(bytes int) string {
	return fmt.Sprintf("%.1fMB", float64(bytes)/1024/1024)
}

func formatMillis(ms float64) string {
	return fmt.Sprintf("%.2fms", ms)
}

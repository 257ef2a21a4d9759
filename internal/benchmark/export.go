package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mwiater/xferbench/internal/logging"
)

// WriteResult writes result as indented JSON into dir and returns the file path.
func WriteResult(dir string, result *Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no result to write")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	fileName := filepath.Join(dir, resultFileBase(result)+".json")

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return "", fmt.Errorf("error writing results to file: %w", err)
	}

	logging.LogEvent("Benchmark results written to %s", fileName)
	return fileName, nil
}

func resultFileBase(result *Result) string {
	id := result.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	cfg := result.Configuration
	return Slugify(fmt.Sprintf("%s-%d-%d-%s", cfg.Shape, cfg.Size, cfg.Iterations, id))
}

// Slugify converts a string into a "slug" format,
// including replacing colons (:) with underscores (_).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	re := regexp.MustCompile(`[^a-z0-9_]+`)
	s = re.ReplaceAllString(s, "-")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")

	return s
}

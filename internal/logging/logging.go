// Package logging fans the standard logger out to stdout and an optional log file.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	quiet   bool
	debug   bool
)

// Init routes the standard logger to stdout and, when logPath is set, to an
// append-only file. Calling Init again closes the previous file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if !quiet {
		writers = append(writers, os.Stdout)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close flushes and releases the log file, restoring stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetQuiet drops stdout from the writer set on the next Init. JSON output and
// the progress UI own stdout, so they log to the file only.
func SetQuiet(v bool) {
	mu.Lock()
	quiet = v
	mu.Unlock()
}

// SetDebug toggles boundary traffic logging.
func SetDebug(v bool) {
	mu.Lock()
	debug = v
	mu.Unlock()
}

// DebugEnabled reports whether boundary traffic is being logged.
func DebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogDebug is LogEvent gated on debug mode.
func LogDebug(format string, args ...any) {
	if !DebugEnabled() {
		return
	}
	LogEvent(format, args...)
}

// LogTransfer records one message crossing the boundary. Only emitted in debug mode.
func LogTransfer(direction, method string, id uint64, payload any) {
	if !DebugEnabled() {
		return
	}
	log.Println(buildTransferMessage(direction, method, id, payload))
}

func buildTransferMessage(direction, method string, id uint64, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	methodValue := strings.TrimSpace(method)
	if methodValue == "" {
		methodValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("method=%s", methodValue))
	parts = append(parts, fmt.Sprintf("id=%d", id))
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

// formatPayload never prints payload text: benchmark payloads run to megabytes.
func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return fmt.Sprintf("string(%d bytes)", len(v))
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return fmt.Sprintf("bytes(%d)", len(v))
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

package benchmark

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mwiater/xferbench/internal/payload"
)

func configurationSchema() map[string]any {
	shapes := make([]any, 0, len(payload.Shapes()))
	for _, s := range payload.Shapes() {
		shapes = append(shapes, string(s))
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"size": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "requested payload size in bytes",
			},
			"iterations": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "timed round trips per transfer method",
			},
			"shape": map[string]any{
				"type": "string",
				"enum": shapes,
			},
			"timeoutMs": map[string]any{
				"type":    "integer",
				"minimum": 0,
			},
		},
		"required": []string{"size", "iterations", "shape"},
	}
}

var schemaLoader = gojsonschema.NewGoLoader(configurationSchema())

// Validate checks c against the configuration schema and returns a
// *ConfigurationError listing every violation.
func (c Configuration) Validate() error {
	document := map[string]any{
		"size":       c.Size,
		"iterations": c.Iterations,
		"shape":      string(c.Shape),
		"timeoutMs":  c.Timeout.Milliseconds(),
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(document))
	if err != nil {
		return &ConfigurationError{Problems: []string{fmt.Sprintf("schema validation error: %v", err)}}
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &ConfigurationError{Problems: problems}
}

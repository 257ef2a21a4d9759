// internal/appconfig/presets.go
package appconfig

import "strings"

// PresetName identifies a run-size preset.
type PresetName string

const (
	PresetQuick    PresetName = "quick"
	PresetStandard PresetName = "standard"
	PresetThorough PresetName = "thorough"
	PresetStress   PresetName = "stress"
)

const mebibyte = 1 << 20

// Preset bundles a payload size and iteration count.
type Preset struct {
	Name        PresetName
	Size        int
	Iterations  int
	Description string
}

var presets = []Preset{
	{Name: PresetQuick, Size: mebibyte, Iterations: 5, Description: "1MB payload, 5 iterations"},
	{Name: PresetStandard, Size: 10 * mebibyte, Iterations: 5, Description: "10MB payload, 5 iterations"},
	{Name: PresetThorough, Size: 10 * mebibyte, Iterations: 50, Description: "10MB payload, 50 iterations"},
	{Name: PresetStress, Size: 50 * mebibyte, Iterations: 10, Description: "50MB payload, 10 iterations"},
}

// Presets returns every preset in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetNames returns the preset names in display order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, string(p.Name))
	}
	return names
}

// PresetFor selects a preset by name.
// Behavior:
//   - empty string => standard
//   - unknown string => ok is false
func PresetFor(name string) (Preset, bool) {
	n := normalizePresetName(name)
	if n == "" {
		n = string(PresetStandard)
	}
	for _, p := range presets {
		if string(p.Name) == n {
			return p, true
		}
	}
	return Preset{}, false
}

func normalizePresetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

package payload

import (
	"fmt"
	"strings"
)

// Shape selects the algorithm used to synthesize benchmark text.
type Shape string

const (
	// RandomPrintable yields printable ASCII, one byte per character.
	RandomPrintable Shape = "random-printable"
	// RandomWide yields random BMP code points, multi-byte in UTF-8.
	RandomWide Shape = "random-wide"
	// RepeatedPattern repeats a fixed sentence truncated to the requested size.
	RepeatedPattern Shape = "repeated-pattern"
)

var shapeAliases = map[string]Shape{
	"random":   RandomPrintable,
	"unicode":  RandomWide,
	"repeated": RepeatedPattern,
}

// Shapes lists every supported shape in display order.
func Shapes() []Shape {
	return []Shape{RandomPrintable, RandomWide, RepeatedPattern}
}

// Valid reports whether s names a supported shape.
func (s Shape) Valid() bool {
	switch s {
	case RandomPrintable, RandomWide, RepeatedPattern:
		return true
	}
	return false
}

func (s Shape) String() string { return string(s) }

// Description is a short human label used by reports and `list shapes`.
func (s Shape) Description() string {
	switch s {
	case RandomPrintable:
		return "random printable ASCII (0x20-0x7E)"
	case RandomWide:
		return "random BMP characters, size/2 characters"
	case RepeatedPattern:
		return fmt.Sprintf("%q repeated and truncated", pattern)
	}
	return "unknown"
}

// ParseShape accepts canonical names and the short aliases random, unicode and repeated.
func ParseShape(name string) (Shape, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if s := Shape(key); s.Valid() {
		return s, nil
	}
	if s, ok := shapeAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown payload shape %q", name)
}

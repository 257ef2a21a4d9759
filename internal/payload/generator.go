// Package payload synthesizes the text moved across the boundary by a benchmark run.
package payload

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

const pattern = "Hello World! This is a test string. "

// Payload is the immutable text shared by both transfer methods of a run.
type Payload struct {
	Text string
	// Length is the character (rune) count, which may differ from the requested size.
	Length int
	// Bytes is the UTF-8 encoded size.
	Bytes int
}

// Generator produces a payload of roughly size bytes in the given shape.
type Generator interface {
	Generate(size int, shape Shape) (Payload, error)
}

// RandomGenerator is the default Generator.
type RandomGenerator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded from the runtime's entropy source.
func NewGenerator() *RandomGenerator {
	return &RandomGenerator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator returns a deterministic generator.
func NewSeededGenerator(seed uint64) *RandomGenerator {
	return &RandomGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate builds the payload text. Random-wide produces size/2 characters,
// skipping the surrogate block so the UTF-8 round trip stays lossless.
func (g *RandomGenerator) Generate(size int, shape Shape) (Payload, error) {
	if size <= 0 {
		return Payload{}, fmt.Errorf("payload size must be positive, got %d", size)
	}

	var text string
	switch shape {
	case RandomPrintable:
		var b strings.Builder
		b.Grow(size)
		for i := 0; i < size; i++ {
			b.WriteByte(byte(g.rng.IntN(95) + 32))
		}
		text = b.String()
	case RandomWide:
		var b strings.Builder
		count := size / 2
		b.Grow(count * 3)
		for i := 0; i < count; i++ {
			b.WriteRune(g.wideRune())
		}
		text = b.String()
	case RepeatedPattern:
		repeats := (size + len(pattern) - 1) / len(pattern)
		text = strings.Repeat(pattern, repeats)[:size]
	default:
		return Payload{}, fmt.Errorf("unknown payload shape %q", shape)
	}

	return Payload{
		Text:   text,
		Length: utf8.RuneCountInString(text),
		Bytes:  len(text),
	}, nil
}

func (g *RandomGenerator) wideRune() rune {
	for {
		r := rune(g.rng.IntN(0xFFFF))
		if !utf8.ValidRune(r) {
			continue
		}
		return r
	}
}

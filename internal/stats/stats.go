// Package stats reduces a series of elapsed-time samples to summary statistics.
package stats

import (
	"errors"
	"sort"
)

// ErrEmptySeries is returned when there are no samples to summarize.
var ErrEmptySeries = errors.New("stats: empty sample series")

// Summary is a read-only snapshot of a finished sample series, in milliseconds.
type Summary struct {
	Average float64   `json:"average"`
	Minimum float64   `json:"minimum"`
	Maximum float64   `json:"maximum"`
	Median  float64   `json:"median"`
	Samples []float64 `json:"samples"`
}

// Summarize computes average, minimum, maximum and median. samples is not
// modified; the summary keeps its own sorted copy.
func Summarize(samples []float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrEmptySeries
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range samples {
		sum += v
	}

	return Summary{
		Average: sum / float64(len(samples)),
		Minimum: sorted[0],
		Maximum: sorted[len(sorted)-1],
		Median:  median(sorted),
		Samples: sorted,
	}, nil
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

package benchmark

import (
	"math"
	"time"

	"github.com/mwiater/xferbench/internal/payload"
	"github.com/mwiater/xferbench/internal/stats"
	"github.com/mwiater/xferbench/internal/transfer"
)

// DefaultTimeout bounds a single iteration's wait for its response.
const DefaultTimeout = 30 * time.Second

// Configuration is fixed for the duration of one run.
type Configuration struct {
	Size       int           `json:"size"`
	Iterations int           `json:"iterations"`
	Shape      payload.Shape `json:"shape"`
	Timeout    time.Duration `json:"timeout"`
}

func (c Configuration) withDefaults() Configuration {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// MethodResult holds one method's samples, in collection order, and their summary.
type MethodResult struct {
	Method  transfer.Method `json:"method"`
	Name    string          `json:"name"`
	Samples []float64       `json:"samples"`
	Summary stats.Summary   `json:"summary"`
}

// Result is the immutable outcome of a completed run.
type Result struct {
	RunID         string        `json:"runId"`
	Configuration Configuration `json:"configuration"`
	PayloadLength int           `json:"payloadLength"`
	PayloadBytes  int           `json:"payloadBytes"`
	StartedAt     time.Time     `json:"startedAt"`
	Elapsed       time.Duration `json:"elapsed"`
	String        MethodResult  `json:"string"`
	Buffer        MethodResult  `json:"buffer"`
}

// Methods returns both method results in measurement order.
func (r *Result) Methods() []MethodResult {
	return []MethodResult{r.String, r.Buffer}
}

// Winner is the method with the lower average; ties go to the buffer method.
func (r *Result) Winner() MethodResult {
	if r.String.Summary.Average < r.Buffer.Summary.Average {
		return r.String
	}
	return r.Buffer
}

// Difference returns the absolute gap between the two averages in
// milliseconds and as a percentage of the slower one.
func (r *Result) Difference() (ms float64, percent float64) {
	a, b := r.String.Summary.Average, r.Buffer.Summary.Average
	ms = math.Abs(a - b)
	slower := math.Max(a, b)
	if slower == 0 {
		return ms, 0
	}
	return ms, ms / slower * 100
}

// Progress is reported after every completed iteration.
type Progress struct {
	Method    transfer.Method
	Iteration int
	Completed int
	Total     int
	// Fraction is Completed/Total, in [0,1].
	Fraction float64
	Elapsed  time.Duration
}

// ProgressObserver receives progress notifications. It is called on the
// orchestrating goroutine and must not block for long.
type ProgressObserver interface {
	Progress(p Progress)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(Progress)

func (f ProgressFunc) Progress(p Progress) { f(p) }

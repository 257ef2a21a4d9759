// Package benchmark drives string-versus-buffer transfer runs against a
// boundary worker and reduces the timings to summary statistics.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/mwiater/xferbench/internal/logging"
	"github.com/mwiater/xferbench/internal/metrics"
	"github.com/mwiater/xferbench/internal/payload"
	"github.com/mwiater/xferbench/internal/stats"
	"github.com/mwiater/xferbench/internal/transfer"
)

// WorkerFactory creates the boundary worker for a run.
type WorkerFactory func() (*transfer.Worker, error)

// DefaultWorkerFactory spawns a worker backed by a fresh Responder.
func DefaultWorkerFactory() (*transfer.Worker, error) {
	return transfer.Spawn(transfer.NewResponder()), nil
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGenerator replaces the payload generator.
func WithGenerator(g payload.Generator) Option {
	return func(o *Orchestrator) { o.generator = g }
}

// WithWorkerFactory replaces the boundary worker factory.
func WithWorkerFactory(f WorkerFactory) Option {
	return func(o *Orchestrator) { o.spawn = f }
}

// WithObserver registers a progress observer.
func WithObserver(obs ProgressObserver) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithRecorder routes samples into r instead of a private recorder.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// Orchestrator owns one boundary worker at a time and runs benchmarks against
// it, one run and one request in flight at a time.
type Orchestrator struct {
	generator payload.Generator
	spawn     WorkerFactory
	observer  ProgressObserver
	recorder  *metrics.Recorder
	active    *semaphore.Weighted

	mu     sync.Mutex
	worker *transfer.Worker
	caller *transfer.Caller
}

// New returns an Orchestrator with the default generator and worker factory.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		generator: payload.NewGenerator(),
		spawn:     DefaultWorkerFactory,
		active:    semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.recorder == nil {
		o.recorder = metrics.NewRecorder()
	}
	return o
}

// Recorder returns the metrics recorder fed by this orchestrator.
func (o *Orchestrator) Recorder() *metrics.Recorder {
	return o.recorder
}

// Run executes one benchmark: it replaces the boundary worker, generates the
// payload, then times cfg.Iterations round trips per method, string first.
// Any failure aborts the run; a returned Result always holds exactly
// cfg.Iterations samples per method.
func (o *Orchestrator) Run(ctx context.Context, cfg Configuration) (*Result, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		o.recorder.RecordFailure(failureReason(err))
		return nil, err
	}
	if !o.active.TryAcquire(1) {
		return nil, ErrRunActive
	}
	defer o.active.Release(1)

	result, err := o.run(ctx, cfg)
	if err != nil {
		o.recorder.RecordFailure(failureReason(err))
		logging.LogEvent("Benchmark failed: %v", err)
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, cfg Configuration) (*Result, error) {
	started := time.Now()

	caller, err := o.resetBoundary()
	if err != nil {
		return nil, err
	}

	logging.LogEvent("Generating %.1fMB %s test string...", float64(cfg.Size)/1024/1024, cfg.Shape)
	p, err := o.generator.Generate(cfg.Size, cfg.Shape)
	if err != nil {
		return nil, fmt.Errorf("generate payload: %w", err)
	}
	logging.LogEvent("Generated string length: %d characters (%d bytes, %d requested)", p.Length, p.Bytes, cfg.Size)
	o.recorder.StartRun(p.Bytes)

	result := &Result{
		RunID:         uuid.NewString(),
		Configuration: cfg,
		PayloadLength: p.Length,
		PayloadBytes:  p.Bytes,
		StartedAt:     started,
	}

	tracker := progressTracker{total: 2 * cfg.Iterations, observer: o.observer}
	for _, method := range transfer.Methods() {
		logging.LogEvent("Testing %s (%d iterations)...", method.DisplayName(), cfg.Iterations)
		samples, err := o.measure(ctx, caller, cfg, method, p, &tracker)
		if err != nil {
			return nil, err
		}
		summary, err := stats.Summarize(samples)
		if err != nil {
			return nil, fmt.Errorf("summarize %s samples: %w", method, err)
		}
		running := o.recorder.Running(method.String())
		logging.LogEvent("%s: avg=%.3fms median=%.3fms min=%.3fms max=%.3fms stddev=%.3fms",
			method.DisplayName(), summary.Average, summary.Median, summary.Minimum, summary.Maximum, running.StdDev())

		mr := MethodResult{Method: method, Name: method.DisplayName(), Samples: samples, Summary: summary}
		switch method {
		case transfer.MethodString:
			result.String = mr
		case transfer.MethodBuffer:
			result.Buffer = mr
		}
	}

	result.Elapsed = time.Since(started)
	return result, nil
}

// measure runs the iteration loop for one method. The series is local to the
// call and only ever appended to.
func (o *Orchestrator) measure(ctx context.Context, caller *transfer.Caller, cfg Configuration, method transfer.Method, p payload.Payload, tracker *progressTracker) ([]float64, error) {
	samples := make([]float64, 0, cfg.Iterations)
	for i := 1; i <= cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s iteration %d: %w", method, i, err)
		}
		elapsed, err := o.roundTrip(ctx, caller, cfg, method, p, i)
		if err != nil {
			return nil, err
		}
		samples = append(samples, float64(elapsed)/float64(time.Millisecond))
		o.recorder.Record(method.String(), elapsed)
		tracker.advance(method, i, elapsed)
	}
	return samples, nil
}

// roundTrip times one request/response pair. For buffers, encoding happens
// inside the timed interval and the buffer is moved to the worker on send.
func (o *Orchestrator) roundTrip(ctx context.Context, caller *transfer.Caller, cfg Configuration, method transfer.Method, p payload.Payload, iteration int) (time.Duration, error) {
	if caller == nil {
		return 0, &BoundaryUnavailableError{Method: method, Iteration: iteration, Err: transfer.ErrTerminated}
	}

	iterCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	var req transfer.Request
	switch method {
	case transfer.MethodString:
		req = transfer.NewStringRequest(p.Text)
	case transfer.MethodBuffer:
		req = transfer.NewBufferRequest(transfer.EncodeText(p.Text))
	default:
		return 0, fmt.Errorf("unknown transfer method %q", method)
	}
	resp, err := caller.Call(iterCtx, req)
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrTerminated):
			return 0, &BoundaryUnavailableError{Method: method, Iteration: iteration, Err: err}
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			return 0, &PairingTimeoutError{Method: method, Iteration: iteration, Timeout: cfg.Timeout}
		}
		return 0, fmt.Errorf("%s iteration %d: %w", method, iteration, err)
	}
	if !resp.Processed {
		return 0, fmt.Errorf("%s iteration %d: %w", method, iteration, ErrNotProcessed)
	}
	if resp.Length != p.Length {
		return 0, fmt.Errorf("%s iteration %d: %w (got %d, want %d)", method, iteration, ErrLengthMismatch, resp.Length, p.Length)
	}
	return elapsed, nil
}

// resetBoundary terminates the previous worker and spawns a fresh one.
func (o *Orchestrator) resetBoundary() (*transfer.Caller, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.worker != nil {
		o.worker.Terminate()
		o.worker = nil
		o.caller = nil
	}

	w, err := o.spawn()
	if err != nil {
		return nil, &BoundaryUnavailableError{Err: err}
	}
	if w == nil {
		return nil, &BoundaryUnavailableError{Err: errors.New("worker factory returned no worker")}
	}
	o.worker = w
	o.caller = transfer.NewCaller(w)
	return o.caller, nil
}

// Close terminates the current boundary worker, if any.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.worker != nil {
		o.worker.Terminate()
		o.worker = nil
		o.caller = nil
	}
	return nil
}

type progressTracker struct {
	completed int
	total     int
	observer  ProgressObserver
}

func (t *progressTracker) advance(method transfer.Method, iteration int, elapsed time.Duration) {
	t.completed++
	if t.observer == nil {
		return
	}
	t.observer.Progress(Progress{
		Method:    method,
		Iteration: iteration,
		Completed: t.completed,
		Total:     t.total,
		Fraction:  float64(t.completed) / float64(t.total),
		Elapsed:   elapsed,
	})
}

package benchmark

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mwiater/xferbench/internal/payload"
	"github.com/mwiater/xferbench/internal/transfer"
)

// recordingFactory spawns real responders and remembers them for inspection.
type recordingFactory struct {
	mu         sync.Mutex
	workers    []*transfer.Worker
	responders []*transfer.Responder
}

func (f *recordingFactory) spawn() (*transfer.Worker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := transfer.NewResponder()
	w := transfer.Spawn(r)
	f.workers = append(f.workers, w)
	f.responders = append(f.responders, r)
	return w, nil
}

func newTestOrchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append([]Option{WithGenerator(payload.NewSeededGenerator(1))}, opts...)
	o := New(opts...)
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func TestRunEndToEndRepeatedPattern(t *testing.T) {
	factory := &recordingFactory{}
	o := newTestOrchestrator(t, WithWorkerFactory(factory.spawn))

	cfg := Configuration{Size: 1024, Iterations: 3, Shape: payload.RepeatedPattern}
	result, err := o.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.PayloadLength != 1024 || result.PayloadBytes != 1024 {
		t.Fatalf("payload length/bytes: %d/%d", result.PayloadLength, result.PayloadBytes)
	}
	if result.Configuration.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %v", result.Configuration.Timeout)
	}
	if result.RunID == "" {
		t.Fatalf("expected run id")
	}
	for _, mr := range result.Methods() {
		if len(mr.Samples) != 3 || len(mr.Summary.Samples) != 3 {
			t.Fatalf("%s: expected 3 samples, got %d/%d", mr.Method, len(mr.Samples), len(mr.Summary.Samples))
		}
		s := mr.Summary
		if s.Minimum > s.Median || s.Median > s.Maximum || s.Minimum > s.Average || s.Average > s.Maximum {
			t.Fatalf("%s: ordering violated: %+v", mr.Method, s)
		}
	}
	if result.String.Method != transfer.MethodString || result.Buffer.Method != transfer.MethodBuffer {
		t.Fatalf("method order: %s, %s", result.String.Method, result.Buffer.Method)
	}
	if len(factory.responders) != 1 {
		t.Fatalf("expected one worker, got %d", len(factory.responders))
	}
	r := factory.responders[0]
	if r.Handled() != 6 {
		t.Fatalf("expected 6 handled requests, got %d", r.Handled())
	}
	if r.Overlaps() != 0 {
		t.Fatalf("expected single-flight, got %d overlapping requests", r.Overlaps())
	}
}

func TestRunSingleFlightWideShape(t *testing.T) {
	factory := &recordingFactory{}
	o := newTestOrchestrator(t, WithWorkerFactory(factory.spawn))
	for _, n := range []int{1, 2, 25} {
		result, err := o.Run(context.Background(), Configuration{Size: 4096, Iterations: n, Shape: payload.RandomWide})
		if err != nil {
			t.Fatalf("iterations=%d: %v", n, err)
		}
		if len(result.String.Samples) != n || len(result.Buffer.Samples) != n {
			t.Fatalf("iterations=%d: sample counts %d/%d", n, len(result.String.Samples), len(result.Buffer.Samples))
		}
	}
	for i, r := range factory.responders {
		if r.Overlaps() != 0 {
			t.Fatalf("responder %d saw %d overlapping requests", i, r.Overlaps())
		}
	}
}

func TestRunConfigurationErrors(t *testing.T) {
	spawned := false
	o := newTestOrchestrator(t, WithWorkerFactory(func() (*transfer.Worker, error) {
		spawned = true
		return DefaultWorkerFactory()
	}))
	cases := map[string]Configuration{
		"zero size":        {Size: 0, Iterations: 1, Shape: payload.RepeatedPattern},
		"negative iters":   {Size: 10, Iterations: -1, Shape: payload.RepeatedPattern},
		"unknown shape":    {Size: 10, Iterations: 1, Shape: payload.Shape("zigzag")},
		"everything wrong": {Size: -5, Iterations: 0, Shape: ""},
	}
	for name, cfg := range cases {
		_, err := o.Run(context.Background(), cfg)
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) || !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%s: expected ConfigurationError, got %v", name, err)
		}
		if len(cfgErr.Problems) == 0 {
			t.Fatalf("%s: expected problems listed", name)
		}
	}
	if spawned {
		t.Fatalf("worker must not be created for an invalid configuration")
	}
}

func TestRunBoundaryCreationFails(t *testing.T) {
	o := newTestOrchestrator(t, WithWorkerFactory(func() (*transfer.Worker, error) {
		return nil, errors.New("no threads left")
	}))
	_, err := o.Run(context.Background(), Configuration{Size: 10, Iterations: 1, Shape: payload.RepeatedPattern})
	var bErr *BoundaryUnavailableError
	if !errors.As(err, &bErr) || !errors.Is(err, ErrBoundaryUnavailable) {
		t.Fatalf("expected BoundaryUnavailableError, got %v", err)
	}
	if !strings.Contains(err.Error(), "no threads left") {
		t.Fatalf("expected cause in message: %v", err)
	}
}

func TestRunBoundaryTornDownMidRun(t *testing.T) {
	var calls atomic.Int32
	var worker *transfer.Worker
	responder := transfer.NewResponder()
	factory := func() (*transfer.Worker, error) {
		worker = transfer.Spawn(transfer.HandlerFunc(func(req transfer.Request) transfer.Response {
			if calls.Add(1) == 2 {
				worker.Terminate()
			}
			return responder.Handle(req)
		}))
		return worker, nil
	}
	o := newTestOrchestrator(t, WithWorkerFactory(factory))

	result, err := o.Run(context.Background(), Configuration{Size: 64, Iterations: 3, Shape: payload.RepeatedPattern})
	if result != nil {
		t.Fatalf("expected no partial result, got %+v", result)
	}
	var bErr *BoundaryUnavailableError
	if !errors.As(err, &bErr) {
		t.Fatalf("expected BoundaryUnavailableError, got %v", err)
	}
	if bErr.Method != transfer.MethodString || bErr.Iteration != 2 {
		t.Fatalf("expected failure at string iteration 2, got %s/%d", bErr.Method, bErr.Iteration)
	}
}

func TestRunPairingTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	o := newTestOrchestrator(t, WithWorkerFactory(func() (*transfer.Worker, error) {
		return transfer.Spawn(transfer.HandlerFunc(func(req transfer.Request) transfer.Response {
			<-release
			return transfer.Response{ID: req.ID, Method: req.Method, Processed: true}
		})), nil
	}))

	cfg := Configuration{Size: 16, Iterations: 2, Shape: payload.RepeatedPattern, Timeout: 25 * time.Millisecond}
	_, err := o.Run(context.Background(), cfg)
	var tErr *PairingTimeoutError
	if !errors.As(err, &tErr) || !errors.Is(err, ErrPairingTimeout) {
		t.Fatalf("expected PairingTimeoutError, got %v", err)
	}
	if tErr.Method != transfer.MethodString || tErr.Iteration != 1 || tErr.Timeout != cfg.Timeout {
		t.Fatalf("unexpected timeout details: %+v", tErr)
	}
}

func TestRunRejectsWrongLength(t *testing.T) {
	o := newTestOrchestrator(t, WithWorkerFactory(func() (*transfer.Worker, error) {
		return transfer.Spawn(transfer.HandlerFunc(func(req transfer.Request) transfer.Response {
			return transfer.Response{ID: req.ID, Method: req.Method, Processed: true, Length: 1}
		})), nil
	}))
	_, err := o.Run(context.Background(), Configuration{Size: 16, Iterations: 1, Shape: payload.RepeatedPattern})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestRunContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	o := newTestOrchestrator(t, WithObserver(ProgressFunc(func(p Progress) {
		if p.Completed == 2 {
			cancel()
		}
	})))
	_, err := o.Run(ctx, Configuration{Size: 32, Iterations: 5, Shape: payload.RepeatedPattern})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunIsolationAndRecreation(t *testing.T) {
	factory := &recordingFactory{}
	o := newTestOrchestrator(t, WithWorkerFactory(factory.spawn))

	first, err := o.Run(context.Background(), Configuration{Size: 128, Iterations: 4, Shape: payload.RandomPrintable})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := o.Run(context.Background(), Configuration{Size: 128, Iterations: 2, Shape: payload.RandomPrintable})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.String.Samples) != 2 || len(second.Buffer.Samples) != 2 {
		t.Fatalf("second run leaked samples: %d/%d", len(second.String.Samples), len(second.Buffer.Samples))
	}
	if len(first.String.Samples) != 4 {
		t.Fatalf("first run mutated: %d samples", len(first.String.Samples))
	}
	if first.RunID == second.RunID {
		t.Fatalf("expected distinct run ids")
	}
	if len(factory.workers) != 2 {
		t.Fatalf("expected a fresh worker per run, got %d", len(factory.workers))
	}
	if !factory.workers[0].Terminated() {
		t.Fatalf("expected the first worker to be terminated")
	}
	if factory.responders[1].Handled() != 4 {
		t.Fatalf("second worker handled %d requests, want 4", factory.responders[1].Handled())
	}
}

func TestRunRetryAfterFailure(t *testing.T) {
	fail := true
	o := newTestOrchestrator(t, WithWorkerFactory(func() (*transfer.Worker, error) {
		if fail {
			fail = false
			return nil, errors.New("first attempt fails")
		}
		return DefaultWorkerFactory()
	}))
	cfg := Configuration{Size: 32, Iterations: 2, Shape: payload.RepeatedPattern}
	if _, err := o.Run(context.Background(), cfg); !errors.Is(err, ErrBoundaryUnavailable) {
		t.Fatalf("expected first run to fail, got %v", err)
	}
	if _, err := o.Run(context.Background(), cfg); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestRunActiveRejected(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	o := newTestOrchestrator(t, WithWorkerFactory(func() (*transfer.Worker, error) {
		return transfer.Spawn(transfer.HandlerFunc(func(req transfer.Request) transfer.Response {
			select {
			case entered <- struct{}{}:
			default:
			}
			<-release
			return transfer.NewResponder().Handle(req)
		})), nil
	}))
	cfg := Configuration{Size: 8, Iterations: 1, Shape: payload.RepeatedPattern}

	done := make(chan error, 1)
	go func() {
		_, err := o.Run(context.Background(), cfg)
		done <- err
	}()
	<-entered
	if _, err := o.Run(context.Background(), cfg); !errors.Is(err, ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

func TestRunProgress(t *testing.T) {
	var seen []Progress
	o := newTestOrchestrator(t, WithObserver(ProgressFunc(func(p Progress) {
		seen = append(seen, p)
	})))
	if _, err := o.Run(context.Background(), Configuration{Size: 64, Iterations: 3, Shape: payload.RepeatedPattern}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 6 {
		t.Fatalf("expected 6 progress events, got %d", len(seen))
	}
	for i, p := range seen {
		wantMethod := transfer.MethodString
		if i >= 3 {
			wantMethod = transfer.MethodBuffer
		}
		if p.Method != wantMethod || p.Completed != i+1 || p.Total != 6 {
			t.Fatalf("event %d: %+v", i, p)
		}
		if p.Iteration != i%3+1 {
			t.Fatalf("event %d: iteration %d", i, p.Iteration)
		}
	}
	if seen[len(seen)-1].Fraction != 1 {
		t.Fatalf("expected final fraction 1, got %v", seen[len(seen)-1].Fraction)
	}
}

func TestResultWinnerAndDifference(t *testing.T) {
	r := &Result{}
	r.String.Summary.Average = 8
	r.Buffer.Summary.Average = 10
	if r.Winner().Method != r.String.Method {
		t.Fatalf("expected string method to win")
	}
	ms, pct := r.Difference()
	if ms != 2 || pct != 20 {
		t.Fatalf("difference = %v ms, %v%%", ms, pct)
	}
	if _, pct := (&Result{}).Difference(); pct != 0 {
		t.Fatalf("expected zero percent for zero averages, got %v", pct)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Model:One":       "model_one",
		"  Model Two  ":   "model-two",
		"Model--Three!!":  "model-three",
		"__Mixed__Case__": "mixed__case",
	}
	for input, expected := range cases {
		if got := Slugify(input); got != expected {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestWriteResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	result := &Result{
		RunID:         "0123456789abcdef",
		Configuration: Configuration{Size: 1024, Iterations: 3, Shape: payload.RepeatedPattern},
		String:        MethodResult{Method: transfer.MethodString, Name: "Direct String Transfer", Samples: []float64{1}},
	}
	path, err := WriteResult(dir, result)
	if err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	if filepath.Base(path) != "repeated-pattern-1024-3-01234567.json" {
		t.Fatalf("unexpected file name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if !strings.Contains(string(data), "Direct String Transfer") {
		t.Fatalf("expected method name in output: %s", string(data))
	}
	var decoded Result
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if decoded.Configuration.Shape != payload.RepeatedPattern {
		t.Fatalf("decoded shape = %q", decoded.Configuration.Shape)
	}
}

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwiater/xferbench/internal/transfer"
)

var (
	// ErrConfiguration marks a configuration rejected before the run starts.
	ErrConfiguration = errors.New("invalid benchmark configuration")
	// ErrBoundaryUnavailable marks a run that lost, or never had, its boundary worker.
	ErrBoundaryUnavailable = errors.New("boundary context unavailable")
	// ErrPairingTimeout marks an iteration whose response did not arrive in time.
	ErrPairingTimeout = errors.New("timed out waiting for matching response")
	// ErrRunActive is returned when Run is called while another run is in progress.
	ErrRunActive = errors.New("a benchmark run is already active")
	// ErrNotProcessed is returned when the responder reports it did not process a request.
	ErrNotProcessed = errors.New("responder did not process the request")
	// ErrLengthMismatch is returned when the reported length differs from the payload length.
	ErrLengthMismatch = errors.New("response length does not match payload length")
)

// ConfigurationError lists every problem found in a Configuration.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(e.Problems, "; "))
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// BoundaryUnavailableError reports a missing or terminated boundary worker.
// Iteration is zero when the worker could not be created at all.
type BoundaryUnavailableError struct {
	Method    transfer.Method
	Iteration int
	Err       error
}

func (e *BoundaryUnavailableError) Error() string {
	if e.Iteration == 0 {
		return fmt.Sprintf("%s: %v", ErrBoundaryUnavailable, e.Err)
	}
	return fmt.Sprintf("%s during %s iteration %d: %v", ErrBoundaryUnavailable, e.Method, e.Iteration, e.Err)
}

func (e *BoundaryUnavailableError) Unwrap() []error {
	return []error{ErrBoundaryUnavailable, e.Err}
}

// PairingTimeoutError names the method and iteration that stalled.
type PairingTimeoutError struct {
	Method    transfer.Method
	Iteration int
	Timeout   time.Duration
}

func (e *PairingTimeoutError) Error() string {
	return fmt.Sprintf("%s: %s iteration %d after %s", ErrPairingTimeout, e.Method, e.Iteration, e.Timeout)
}

func (e *PairingTimeoutError) Unwrap() []error {
	return []error{ErrPairingTimeout, context.DeadlineExceeded}
}

// failureReason is the metrics label for a failed run.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrBoundaryUnavailable):
		return "boundary"
	case errors.Is(err, ErrPairingTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrNotProcessed), errors.Is(err, ErrLengthMismatch), errors.Is(err, transfer.ErrMethodMismatch):
		return "response"
	}
	return "other"
}

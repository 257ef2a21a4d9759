package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mwiater/xferbench/internal/logging"
)

// ErrMethodMismatch is returned when a response echoes a request id with a different method tag.
var ErrMethodMismatch = errors.New("transfer: response method does not match request")

// Caller pairs responses with requests by correlation id. Every Call gets the
// next id; the dispatcher hands each response to the waiter registered under
// its id exactly once and then forgets the waiter, so a late response can never
// resolve a later call.
type Caller struct {
	worker *Worker
	nextID atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan Response
	closed  bool
	done    chan struct{}
}

// NewCaller attaches a caller to w and starts its dispatcher.
func NewCaller(w *Worker) *Caller {
	c := &Caller{
		worker:  w,
		pending: make(map[uint64]chan Response),
		done:    make(chan struct{}),
	}
	go c.dispatch()
	return c
}

// Call posts req and blocks until its response arrives, ctx ends, or the worker terminates.
func (c *Caller) Call(ctx context.Context, req Request) (Response, error) {
	req.ID = c.nextID.Add(1)
	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Response{}, ErrTerminated
	}
	c.pending[req.ID] = ch
	c.mu.Unlock()
	defer c.forget(req.ID)

	if err := c.worker.Post(req); err != nil {
		return Response{}, err
	}

	select {
	case resp := <-ch:
		return c.check(req, resp)
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-c.done:
		select {
		case resp := <-ch:
			return c.check(req, resp)
		default:
			return Response{}, ErrTerminated
		}
	}
}

// Pending is the number of calls awaiting a response.
func (c *Caller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Caller) check(req Request, resp Response) (Response, error) {
	if resp.Method != req.Method {
		return resp, fmt.Errorf("%w: sent %s, got %s for id %d", ErrMethodMismatch, req.Method, resp.Method, req.ID)
	}
	return resp, nil
}

func (c *Caller) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Caller) dispatch() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	}()
	for {
		resp, err := c.worker.receive(context.Background())
		if err != nil {
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()
		if !ok {
			logging.LogEvent("transfer: dropping response for unknown id %d (%s)", resp.ID, resp.Method)
			continue
		}
		ch <- resp
	}
}

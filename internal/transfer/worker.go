package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mwiater/xferbench/internal/logging"
)

// ErrTerminated is returned when posting to, or waiting on, a terminated worker.
var ErrTerminated = errors.New("transfer: worker terminated")

// Handler processes requests inside the boundary context.
type Handler interface {
	Handle(req Request) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(Request) Response

func (f HandlerFunc) Handle(req Request) Response { return f(req) }

// Worker is a boundary context: a goroutine that only communicates through
// its inbound and outbound mailboxes.
type Worker struct {
	handler Handler
	inbox   *mailbox[Request]
	outbox  *mailbox[Response]

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Spawn starts a worker goroutine serving h.
func Spawn(h Handler) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		handler: h,
		inbox:   newMailbox[Request](),
		outbox:  newMailbox[Response](),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		req, err := w.inbox.Receive(w.ctx)
		if err != nil {
			return
		}
		logging.LogTransfer("in", req.Method.String(), req.ID, req.payloadSummary())
		resp := w.handler.Handle(req)
		if err := w.outbox.Post(resp); err != nil {
			return
		}
	}
}

// Post sends req into the boundary. String payloads are cloned on the way in,
// the way a by-value message is copied between contexts. Buffer payloads are
// moved: the sender's Buffer is detached and must not be used afterwards.
func (w *Worker) Post(req Request) error {
	if w.ctx.Err() != nil {
		return ErrTerminated
	}
	switch req.Method {
	case MethodString:
		req.Text = strings.Clone(req.Text)
	case MethodBuffer:
		moved, err := req.Buffer.Transfer()
		if err != nil {
			return fmt.Errorf("post %s: %w", req, err)
		}
		req.Buffer = moved
	}
	logging.LogTransfer("out", req.Method.String(), req.ID, req.payloadSummary())
	if err := w.inbox.Post(req); err != nil {
		return ErrTerminated
	}
	return nil
}

func (w *Worker) receive(ctx context.Context) (Response, error) {
	resp, err := w.outbox.Receive(ctx)
	if errors.Is(err, ErrMailboxClosed) {
		return Response{}, ErrTerminated
	}
	return resp, err
}

// Terminate stops the worker. It does not wait for an in-progress Handle call.
func (w *Worker) Terminate() {
	w.once.Do(func() {
		w.cancel()
		w.inbox.Close()
		w.outbox.Close()
	})
}

// Terminated reports whether Terminate has been called.
func (w *Worker) Terminated() bool {
	return w.ctx.Err() != nil
}

// Done is closed when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

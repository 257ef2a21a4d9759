package transfer

import (
	"context"
	"errors"
	"sync"

	"github.com/eapache/queue"
)

// ErrMailboxClosed is returned by Post and Receive once a mailbox is closed and drained.
var ErrMailboxClosed = errors.New("transfer: mailbox closed")

// mailbox is an unbounded FIFO. Post never blocks, like posting a message to
// another worker; Receive blocks until a message or closure.
type mailbox[T any] struct {
	mu     sync.Mutex
	items  *queue.Queue
	signal chan struct{}
	closed bool
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{
		items:  queue.New(),
		signal: make(chan struct{}, 1),
	}
}

func (m *mailbox[T]) Post(v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrMailboxClosed
	}
	m.items.Add(v)
	select {
	case m.signal <- struct{}{}:
	default:
	}
	return nil
}

// Receive returns queued messages even after Close, until the queue is empty.
func (m *mailbox[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	for {
		m.mu.Lock()
		if m.items.Length() > 0 {
			v := m.items.Remove().(T)
			m.mu.Unlock()
			return v, nil
		}
		if m.closed {
			m.mu.Unlock()
			return zero, ErrMailboxClosed
		}
		m.mu.Unlock()

		select {
		case <-m.signal:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

func (m *mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Length()
}

func (m *mailbox[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.signal)
}

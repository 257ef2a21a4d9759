package transfer

import "errors"

// ErrDetached is returned when a buffer that was already moved is transferred again.
var ErrDetached = errors.New("transfer: buffer is detached")

// Buffer is a uniquely owned byte region. Transfer moves the bytes to a new
// handle without copying and detaches the old one; a detached buffer reads as
// empty and must not be used.
type Buffer struct {
	data     []byte
	detached bool
}

// NewBuffer takes ownership of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b}
}

// EncodeText UTF-8 encodes s into a freshly allocated buffer.
func EncodeText(s string) *Buffer {
	return &Buffer{data: []byte(s)}
}

// Bytes returns the owned bytes, or nil once detached.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.detached {
		return nil
	}
	return b.data
}

// Len is the byte length, zero once detached.
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// Detached reports whether ownership has been moved away from this handle.
func (b *Buffer) Detached() bool {
	return b == nil || b.detached
}

// Transfer moves ownership of the bytes into a new handle.
func (b *Buffer) Transfer() (*Buffer, error) {
	if b.Detached() {
		return nil, ErrDetached
	}
	moved := &Buffer{data: b.data}
	b.data = nil
	b.detached = true
	return moved, nil
}

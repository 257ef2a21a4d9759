// Package transfer implements the boundary context a benchmark talks to: the
// request/response messages, a goroutine-backed worker with its mailboxes, the
// responder that processes payloads, and a caller that pairs responses with
// requests by correlation id.
package transfer

import (
	"fmt"
)

// Method tags the transfer strategy carried by a message.
type Method string

const (
	// MethodString moves the text by value.
	MethodString Method = "string"
	// MethodBuffer moves ownership of a UTF-8 encoded byte buffer.
	MethodBuffer Method = "buffer"
)

// Methods returns both methods in measurement order.
func Methods() []Method {
	return []Method{MethodString, MethodBuffer}
}

// DisplayName is the report label for the method.
func (m Method) DisplayName() string {
	switch m {
	case MethodString:
		return "Direct String Transfer"
	case MethodBuffer:
		return "Buffer Transfer"
	}
	return string(m)
}

func (m Method) String() string { return string(m) }

// Request is sent to the boundary. Text is set for MethodString, Buffer for MethodBuffer.
type Request struct {
	ID     uint64
	Method Method
	Text   string
	Buffer *Buffer
}

// Response carries only the outcome of processing, never payload data.
type Response struct {
	ID        uint64 `json:"id"`
	Method    Method `json:"method"`
	Processed bool   `json:"processed"`
	Length    int    `json:"length"`
}

// NewStringRequest builds a by-value request.
func NewStringRequest(text string) Request {
	return Request{Method: MethodString, Text: text}
}

// NewBufferRequest builds a move-ownership request.
func NewBufferRequest(buf *Buffer) Request {
	return Request{Method: MethodBuffer, Buffer: buf}
}

// payloadSummary is what the traffic log prints in place of the payload.
func (r Request) payloadSummary() any {
	switch r.Method {
	case MethodString:
		return r.Text
	case MethodBuffer:
		return r.Buffer.Bytes()
	}
	return nil
}

func (r Request) String() string {
	return fmt.Sprintf("request{id=%d method=%s}", r.ID, r.Method)
}

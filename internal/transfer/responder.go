package transfer

import (
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"

	"github.com/mwiater/xferbench/internal/logging"
)

// checksumWindow caps the checksum pass on very large inputs.
const checksumWindow = 10000

// Responder is the boundary-side handler. Both methods end in the same
// processing pass so that only the transfer mechanism differs between them.
type Responder struct {
	inFlight atomic.Int32
	overlaps atomic.Int64
	handled  atomic.Int64
	// sink keeps the derived values observable so the work is not elided.
	sink atomic.Int64
}

// NewResponder returns a ready responder.
func NewResponder() *Responder {
	return &Responder{}
}

// decodeText decodes UTF-8 bytes, replacing invalid sequences with U+FFFD.
func decodeText(b []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(decoded)
}

// Handle processes one request and reports the character length of its text.
func (r *Responder) Handle(req Request) Response {
	if r.inFlight.Add(1) > 1 {
		r.overlaps.Add(1)
	}
	defer r.inFlight.Add(-1)
	defer r.handled.Add(1)

	start := time.Now()
	var text string
	switch req.Method {
	case MethodString:
		text = req.Text
	case MethodBuffer:
		text = decodeText(req.Buffer.Bytes())
		logging.LogDebug("responder: buffer decode took %s", time.Since(start))
	default:
		return Response{ID: req.ID, Method: req.Method}
	}

	d := process(text)
	r.sink.Add(int64(d.checksum + len(d.upper) + len(d.lower) + len(d.reversed)))
	logging.LogDebug("responder: %s processing took %s", req.Method, time.Since(start))

	return Response{
		ID:        req.ID,
		Method:    req.Method,
		Processed: true,
		Length:    d.chars,
	}
}

// Handled is the number of requests processed so far.
func (r *Responder) Handled() int64 { return r.handled.Load() }

// Overlaps counts Handle calls that started while another was still running.
// Under single-flight sequencing it stays zero.
func (r *Responder) Overlaps() int64 { return r.overlaps.Load() }

type digest struct {
	chars      int
	hasDigits  bool
	hasLetters bool
	hasOther   bool
	checksum   int
	upper      string
	lower      string
	reversed   string
}

func process(text string) digest {
	d := digest{chars: utf8.RuneCountInString(text)}

	runes := make([]rune, 0, d.chars)
	for _, c := range text {
		runes = append(runes, c)
		switch {
		case c >= '0' && c <= '9':
			d.hasDigits = true
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			d.hasLetters = true
		case !isSpace(c):
			d.hasOther = true
		}
		if len(runes) <= checksumWindow {
			d.checksum += int(c) % 256
		}
	}

	// Casers carry state and are not shared across calls.
	d.upper = cases.Upper(language.Und).String(text)
	d.lower = cases.Lower(language.Und).String(text)

	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	d.reversed = string(runes)
	return d
}

// isSpace matches the whitespace class used by the pattern checks.
func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x00a0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return c >= 0x2000 && c <= 0x200a
}

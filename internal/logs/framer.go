package logs

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

const framerReadSize = 32 * 1024

// Framer reassembles arbitrarily chunked bytes into lines. A trailing
// unterminated remainder is flushed as a final line at a clean end of stream;
// when the reader fails instead, the partial line is dropped.
// Not safe for concurrent use.
type Framer struct {
	r       *bufio.Reader
	maxLine int
	decoder *encoding.Decoder
	pending []byte
	// complete is set when pending holds a terminated line.
	complete bool
	seq      uint64
	err      error
}

// NewFramer reads from r. maxLineBytes > 0 caps a line: longer input is split
// into consecutive lines of at most that many bytes. Zero means no cap.
func NewFramer(r io.Reader, maxLineBytes int) *Framer {
	return &Framer{
		r:       bufio.NewReaderSize(r, framerReadSize),
		maxLine: maxLineBytes,
		decoder: unicode.UTF8.NewDecoder(),
	}
}

// Next returns the next line. It returns io.EOF once the source is exhausted
// and every buffered byte has been delivered; any other error comes from the
// underlying reader and is sticky.
func (f *Framer) Next() (Line, error) {
	for {
		if f.err != nil && !errors.Is(f.err, io.EOF) {
			f.pending = f.pending[:0]
			return Line{}, f.err
		}
		if f.maxLine > 0 && len(f.pending) > f.maxLine {
			return f.emitPrefix(f.maxLine), nil
		}
		if f.complete || (f.err != nil && len(f.pending) > 0) {
			f.complete = false
			return f.emit(f.pending), nil
		}
		if f.err != nil {
			return Line{}, f.err
		}

		chunk, err := f.r.ReadSlice('\n')
		f.pending = append(f.pending, chunk...)
		switch {
		case err == nil:
			f.pending = trimTerminator(f.pending)
			f.complete = true
		case errors.Is(err, bufio.ErrBufferFull):
		default:
			f.err = err
		}
	}
}

// Lines yields lines until the source ends. A clean end of stream is not
// reported as an error.
func (f *Framer) Lines() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for {
			line, err := f.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

func (f *Framer) emitPrefix(n int) Line {
	// Don't split a UTF-8 sequence across two lines when avoidable.
	cut := n
	for cut > 0 && cut > n-3 && cut < len(f.pending) && isContinuation(f.pending[cut]) {
		cut--
	}
	if cut == 0 {
		cut = n
	}
	line := f.decode(f.pending[:cut])
	f.pending = append(f.pending[:0], f.pending[cut:]...)
	return line
}

func (f *Framer) emit(raw []byte) Line {
	line := f.decode(raw)
	f.pending = f.pending[:0]
	return line
}

func (f *Framer) decode(raw []byte) Line {
	f.seq++
	text, err := f.decoder.String(string(raw))
	if err != nil {
		text = strings.ToValidUTF8(string(raw), "�")
	}
	return Line{Seq: f.seq, Text: text}
}

func trimTerminator(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

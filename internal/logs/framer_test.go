package logs

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

// chunkReader returns one chunk per Read call, then err (io.EOF by default).
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func collect(t *testing.T, f *Framer) ([]Line, error) {
	t.Helper()
	var lines []Line
	for line, err := range f.Lines() {
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func TestFramer_Lines(t *testing.T) {
	tests := []struct {
		name    string
		chunks  []string
		maxLine int
		want    []string
	}{
		{
			name:   "lines split across chunks",
			chunks: []string{"line1\n", "li", "ne2\nline3"},
			want:   []string{"line1", "line2", "line3"},
		},
		{
			name:   "one chunk many lines",
			chunks: []string{"a\nb\nc\n"},
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "crlf terminators",
			chunks: []string{"a\r\n", "b\r", "\n"},
			want:   []string{"a", "b"},
		},
		{
			name:   "empty lines kept",
			chunks: []string{"a\n\nb"},
			want:   []string{"a", "", "b"},
		},
		{
			name:   "byte at a time",
			chunks: []string{"h", "i", "\n", "y", "o"},
			want:   []string{"hi", "yo"},
		},
		{
			name:   "empty stream",
			chunks: nil,
			want:   nil,
		},
		{
			name:    "long line split at cap",
			chunks:  []string{"abcdefghij\n", "kl\n"},
			maxLine: 4,
			want:    []string{"abcd", "efgh", "ij", "kl"},
		},
		{
			name:    "unterminated long remainder split at cap",
			chunks:  []string{"abcdefg"},
			maxLine: 3,
			want:    []string{"abc", "def", "g"},
		},
		{
			name:    "cap does not split a multibyte rune",
			chunks:  []string{"abécd\n"},
			maxLine: 3,
			want:    []string{"ab", "éc", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFramer(&chunkReader{chunks: append([]string(nil), tt.chunks...)}, tt.maxLine)
			lines, err := collect(t, f)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := texts(lines)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %q, want %d %q", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFramer_TrailingRemainderYieldsExtraLine(t *testing.T) {
	for k := 0; k < 5; k++ {
		input := strings.Repeat("x\n", k) + "tail"
		lines, err := collect(t, NewFramer(strings.NewReader(input), 0))
		if err != nil {
			t.Fatalf("k=%d: unexpected error: %v", k, err)
		}
		if len(lines) != k+1 {
			t.Fatalf("k=%d: got %d lines, want %d", k, len(lines), k+1)
		}
		if last := lines[len(lines)-1].Text; last != "tail" {
			t.Errorf("k=%d: last line = %q, want %q", k, last, "tail")
		}
	}
}

func TestFramer_SequenceNumbers(t *testing.T) {
	lines, err := collect(t, NewFramer(strings.NewReader("a\nb\nc"), 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, l := range lines {
		if l.Seq != uint64(i+1) {
			t.Errorf("line %d seq = %d, want %d", i, l.Seq, i+1)
		}
	}
}

func TestFramer_InvalidUTF8(t *testing.T) {
	lines, err := collect(t, NewFramer(strings.NewReader("a\xffb\n"), 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !utf8.ValidString(lines[0].Text) {
		t.Errorf("line %q is not valid UTF-8", lines[0].Text)
	}
	if lines[0].Text != "a�b" {
		t.Errorf("line = %q, want %q", lines[0].Text, "a�b")
	}
}

func TestFramer_ReaderErrorDropsPartialLine(t *testing.T) {
	boom := errors.New("connection reset")
	f := NewFramer(&chunkReader{chunks: []string{"a\n", "partial"}, err: boom}, 0)

	lines, err := collect(t, f)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if got := texts(lines); len(got) != 1 || got[0] != "a" {
		t.Fatalf("lines = %q, want [a]", got)
	}

	if _, err := f.Next(); !errors.Is(err, boom) {
		t.Errorf("error should be sticky, got %v", err)
	}
}

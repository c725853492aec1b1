package logs

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const EventError = "error"

// Frame is one server-sent event. Comment frames carry no event and are
// ignored by clients.
type Frame struct {
	Event   string `json:"event,omitempty"`
	ID      string `json:"id,omitempty"`
	Data    string `json:"data"`
	Comment string `json:"-"`
}

// Encode renders a line as an event frame. The payload is the quoted,
// escaped text so that a frame always occupies exactly one data field.
func Encode(line Line) Frame {
	return Frame{
		ID:   strconv.FormatUint(line.Seq, 10),
		Data: quote(line.Text),
	}
}

// ErrorFrame is the terminal event sent when the source fails mid-stream.
func ErrorFrame(err error) Frame {
	msg := "log stream failed"
	if err != nil {
		msg = err.Error()
	}
	return Frame{Event: EventError, Data: quote(msg)}
}

func HeartbeatFrame() Frame {
	return Frame{Comment: "ping"}
}

func (f Frame) IsComment() bool {
	return f.Comment != "" && f.Data == "" && f.Event == ""
}

func quote(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return strconv.Quote(s)
}

// WriteTo writes the frame in text/event-stream format.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if f.IsComment() {
		b.WriteString(": ")
		b.WriteString(singleLine(f.Comment))
		b.WriteString("\n\n")
	} else {
		if f.Event != "" {
			b.WriteString("event: ")
			b.WriteString(singleLine(f.Event))
			b.WriteByte('\n')
		}
		if f.ID != "" {
			b.WriteString("id: ")
			b.WriteString(singleLine(f.ID))
			b.WriteByte('\n')
		}
		for _, part := range strings.Split(f.Data, "\n") {
			b.WriteString("data: ")
			b.WriteString(strings.TrimSuffix(part, "\r"))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func singleLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

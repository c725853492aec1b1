package logs

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		line     Line
		wantData string
	}{
		{
			name:     "plain text is debug quoted",
			line:     Line{Seq: 1, Text: "hello"},
			wantData: `"hello"`,
		},
		{
			name:     "quotes escaped",
			line:     Line{Seq: 2, Text: `he said "hi"`},
			wantData: `"he said \"hi\""`,
		},
		{
			name:     "control characters escaped",
			line:     Line{Seq: 3, Text: "a\tb\x1b[0m"},
			wantData: `"a\tb\x1b[0m"`,
		},
		{
			name:     "non-printable runes use go escapes",
			line:     Line{Seq: 4, Text: "soft\u00adhyphen"},
			wantData: `"soft\u00adhyphen"`,
		},
		{
			name:     "empty line",
			line:     Line{Seq: 4, Text: ""},
			wantData: `""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Encode(tt.line)
			if f.Data != tt.wantData {
				t.Errorf("Data = %s, want %s", f.Data, tt.wantData)
			}
			if f.Event != "" {
				t.Errorf("Event = %q, want default", f.Event)
			}
			if strings.ContainsAny(f.Data, "\r\n") {
				t.Errorf("Data %q spans lines", f.Data)
			}
		})
	}
}

func TestEncode_InvalidUTF8(t *testing.T) {
	f := Encode(Line{Seq: 1, Text: "a\xffb"})
	if !utf8.ValidString(f.Data) {
		t.Fatalf("Data %q is not valid UTF-8", f.Data)
	}
	if !strings.Contains(f.Data, "�") {
		t.Errorf("Data %q lacks the replacement character", f.Data)
	}
}

func TestFrame_WriteTo(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  string
	}{
		{
			name:  "line frame",
			frame: Encode(Line{Seq: 7, Text: "ready"}),
			want:  "id: 7\ndata: \"ready\"\n\n",
		},
		{
			name:  "error frame",
			frame: ErrorFrame(errors.New("boom")),
			want:  "event: error\ndata: \"boom\"\n\n",
		},
		{
			name:  "heartbeat",
			frame: HeartbeatFrame(),
			want:  ": ping\n\n",
		},
		{
			name:  "multi-line data",
			frame: Frame{Data: "a\r\nb"},
			want:  "data: a\ndata: b\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			n, err := tt.frame.WriteTo(&b)
			if err != nil {
				t.Fatalf("WriteTo: %v", err)
			}
			if b.String() != tt.want {
				t.Errorf("wrote %q, want %q", b.String(), tt.want)
			}
			if n != int64(len(tt.want)) {
				t.Errorf("n = %d, want %d", n, len(tt.want))
			}
		})
	}
}

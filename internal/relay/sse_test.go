package relay

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/augustdev/amphitheatre/internal/logs"
)

func TestEventStream(t *testing.T) {
	rec := httptest.NewRecorder()

	stream, err := NewEventStream(rec)
	if err != nil {
		t.Fatalf("NewEventStream: %v", err)
	}
	if !rec.Flushed {
		t.Error("headers not flushed")
	}

	for _, f := range []logs.Frame{
		logs.Encode(logs.Line{Seq: 1, Text: "hello"}),
		logs.HeartbeatFrame(),
	} {
		if err := stream.Send(f); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}
	want := "id: 1\ndata: \"hello\"\n\n: ping\n\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

package relay

import (
	"net/http"

	"github.com/augustdev/amphitheatre/internal/logs"
)

// EventStream writes frames to an HTTP response as text/event-stream,
// flushing after each one.
type EventStream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewEventStream commits the response headers. Nothing else may be written to
// w afterwards except through Send.
func NewEventStream(w http.ResponseWriter) (*EventStream, error) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		return nil, err
	}
	return &EventStream{w: w, rc: rc}, nil
}

func (s *EventStream) Send(frame logs.Frame) error {
	if _, err := frame.WriteTo(s.w); err != nil {
		return err
	}
	return s.rc.Flush()
}

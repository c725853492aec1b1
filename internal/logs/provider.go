package logs

import (
	"context"
	"errors"
	"io"
)

var (
	ErrSourceUnavailable = errors.New("log source unavailable")
	ErrSourceRead        = errors.New("log source read failed")
	ErrCancelled         = errors.New("log subscription cancelled")
)

// Workload names the container whose output is relayed.
type Workload struct {
	Namespace string `json:"namespace"`
	Pod       string `json:"pod"`
	Container string `json:"container,omitempty"`
}

func (w Workload) String() string {
	s := w.Namespace + "/" + w.Pod
	if w.Container != "" {
		s += "/" + w.Container
	}
	return s
}

type OpenOptions struct {
	// Follow keeps the stream open for new output.
	Follow bool
	// BacklogLines is the number of most recent lines delivered before
	// following. Negative means the whole available history.
	BacklogLines int64
}

// Line is one reassembled unit of log text. Seq is 1-based in delivery order.
type Line struct {
	Seq  uint64 `json:"seq"`
	Text string `json:"text"`
}

type Source interface {
	// Open returns the raw byte stream for the workload's standard output.
	// It fails with ErrSourceUnavailable when the workload cannot be located
	// or the stream cannot be established; nothing is left open in that case.
	Open(ctx context.Context, workload Workload, opts OpenOptions) (io.ReadCloser, error)
}

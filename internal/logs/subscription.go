package logs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

type State int32

const (
	StateOpening State = iota
	StateStreaming
	StateClosed
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

func (s State) Terminal() bool {
	return s == StateClosed || s == StateFailed || s == StateCancelled
}

// Subscription owns one open byte stream from a Source. It is an io.Reader
// over the raw output; Cancel may be called from any goroutine and unblocks
// a pending Read by releasing the connection handle.
type Subscription struct {
	workload Workload
	stream   io.ReadCloser
	ctx      context.Context
	cancel   context.CancelFunc

	state     atomic.Int32
	closeOnce sync.Once
	closeErr  error
}

// Subscribe opens workload's output on src. The returned subscription is in
// StateStreaming.
func Subscribe(ctx context.Context, src Source, workload Workload, opts OpenOptions) (*Subscription, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := src.Open(streamCtx, workload, opts)
	if err != nil {
		cancel()
		if errors.Is(err, ErrSourceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, workload, err)
	}

	sub := &Subscription{
		workload: workload,
		stream:   stream,
		ctx:      streamCtx,
		cancel:   cancel,
	}
	sub.state.Store(int32(StateStreaming))
	return sub, nil
}

func (s *Subscription) Workload() Workload {
	return s.workload
}

func (s *Subscription) State() State {
	return State(s.state.Load())
}

// Read returns raw chunks. The natural end of the stream is io.EOF and moves
// the subscription to StateClosed; an I/O failure is wrapped in ErrSourceRead
// and moves it to StateFailed. After Cancel, Read returns ErrCancelled.
func (s *Subscription) Read(p []byte) (int, error) {
	if s.State() == StateCancelled {
		return 0, ErrCancelled
	}

	n, err := s.stream.Read(p)
	if err == nil {
		return n, nil
	}

	// The stream is bound to the subscription context; once that is done any
	// error is the handle being torn down, even if Cancel has not run yet.
	if s.ctx.Err() != nil {
		s.finish(StateCancelled)
		if s.State() == StateCancelled {
			return n, ErrCancelled
		}
	}

	if errors.Is(err, io.EOF) {
		if s.finish(StateClosed) {
			return n, io.EOF
		}
	} else if s.finish(StateFailed) {
		return n, fmt.Errorf("%w: %s: %w", ErrSourceRead, s.workload, err)
	}

	// Lost the race against Cancel: whatever the stream reported is a
	// consequence of the handle being torn down.
	if s.State() == StateCancelled {
		return n, ErrCancelled
	}
	return n, err
}

// Cancel stops the subscription and releases the connection handle. It is a
// no-op on the state of a subscription that already ended, but always
// releases the handle.
func (s *Subscription) Cancel() {
	s.finish(StateCancelled)
	_ = s.Close()
}

// Close releases the connection handle. Safe to call more than once.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = s.stream.Close()
	})
	return s.closeErr
}

func (s *Subscription) finish(to State) bool {
	return s.state.CompareAndSwap(int32(StateStreaming), int32(to))
}

package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/augustdev/amphitheatre/internal/logs"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/errgroup"
)

var (
	ErrClientDisconnected = errors.New("client disconnected")
	ErrIdleTimeout        = errors.New("log stream idle timeout")
)

// Outbound is the client side of a session. Send writes one frame and
// returns once it has been handed to the transport.
type Outbound interface {
	Send(frame logs.Frame) error
}

type Request struct {
	Workload     logs.Workload
	Follow       bool
	BacklogLines int64
}

type Relay struct {
	source logs.Source
	config Config
	logger *slog.Logger
}

func NewRelay(source logs.Source, config Config, logger *slog.Logger) *Relay {
	return &Relay{
		source: source,
		config: config.withDefaults(),
		logger: logger,
	}
}

func (r *Relay) Config() Config {
	return r.config
}

// Session binds one subscription to one client for the life of a connection.
type Session struct {
	ID  string
	sub *logs.Subscription

	config    Config
	logger    *slog.Logger
	idle      *time.Timer
	delivered int
}

// Open subscribes to the workload's output. Failures here happen before any
// byte reaches the client and wrap logs.ErrSourceUnavailable.
func (r *Relay) Open(ctx context.Context, req Request) (*Session, error) {
	backlog := req.BacklogLines
	if backlog > r.config.MaxBacklogLines {
		backlog = r.config.MaxBacklogLines
	}

	sub, err := logs.Subscribe(ctx, r.source, req.Workload, logs.OpenOptions{
		Follow:       req.Follow,
		BacklogLines: backlog,
	})
	if err != nil {
		return nil, err
	}

	id := shortuuid.New()
	s := &Session{
		ID:     id,
		sub:    sub,
		config: r.config,
		logger: r.logger.With(
			"session_id", id,
			"namespace", req.Workload.Namespace,
			"pod", req.Workload.Pod,
			"follow", req.Follow,
			"backlog", backlog,
		),
	}
	s.logger.Info("relay session opened")
	return s, nil
}

// Close releases the session without running it.
func (s *Session) Close() {
	s.sub.Cancel()
}

func (s *Session) State() logs.State {
	return s.sub.State()
}

// Run pumps lines to out until the source ends, fails, or the client goes
// away. It returns nil on a natural end, an ErrSourceRead error after the
// terminal error event was delivered, or ErrClientDisconnected. The
// subscription's handle is released on every path.
func (s *Session) Run(ctx context.Context, out Outbound) error {
	defer s.sub.Cancel()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if s.config.IdleTimeout > 0 {
		s.idle = time.AfterFunc(s.config.IdleTimeout, func() { cancel(ErrIdleTimeout) })
		defer s.idle.Stop()
	}

	lines := make(chan logs.Line, s.config.BufferLines)
	var sourceErr error

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, s.sub.Cancel)
	defer stop()

	g.Go(func() error {
		defer close(lines)
		err := s.pump(gctx, lines)
		if errors.Is(err, logs.ErrSourceRead) {
			sourceErr = err
			return nil
		}
		return err
	})
	g.Go(func() error {
		return s.deliver(gctx, out, lines, &sourceErr)
	})

	err := g.Wait()
	return s.finish(ctx, out, err, sourceErr)
}

func (s *Session) finish(ctx context.Context, out Outbound, err, sourceErr error) error {
	switch {
	case err == nil && sourceErr != nil:
		s.logger.Warn("relay session ended: source failed", "delivered", s.delivered, "error", sourceErr)
		return sourceErr

	case err == nil:
		s.logger.Info("relay session ended: source closed", "delivered", s.delivered)
		return nil

	case errors.Is(context.Cause(ctx), ErrIdleTimeout):
		s.logger.Info("relay session ended: idle timeout", "delivered", s.delivered)
		if sendErr := out.Send(logs.ErrorFrame(ErrIdleTimeout)); sendErr != nil {
			return fmt.Errorf("%w: %w", ErrClientDisconnected, sendErr)
		}
		return ErrIdleTimeout

	case errors.Is(err, ErrClientDisconnected), errors.Is(err, logs.ErrCancelled), ctx.Err() != nil:
		s.logger.Info("relay session ended: client disconnected", "delivered", s.delivered)
		if errors.Is(err, ErrClientDisconnected) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrClientDisconnected, context.Cause(ctx))

	default:
		s.logger.Error("relay session ended unexpectedly", "delivered", s.delivered, "error", err)
		return err
	}
}

func (s *Session) pump(ctx context.Context, lines chan<- logs.Line) error {
	framer := logs.NewFramer(s.sub, s.config.MaxLineBytes)
	for line, err := range framer.Lines() {
		if err != nil {
			return err
		}
		if s.idle != nil {
			s.idle.Reset(s.config.IdleTimeout)
		}

		select {
		case lines <- line:
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
	return nil
}

func (s *Session) deliver(ctx context.Context, out Outbound, lines <-chan logs.Line, sourceErr *error) error {
	var heartbeat <-chan time.Time
	if s.config.HeartbeatInterval > 0 {
		ticker := time.NewTicker(s.config.HeartbeatInterval)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)

		case <-heartbeat:
			if err := out.Send(logs.HeartbeatFrame()); err != nil {
				return fmt.Errorf("%w: %w", ErrClientDisconnected, err)
			}

		case line, ok := <-lines:
			if !ok {
				if *sourceErr != nil {
					if err := out.Send(logs.ErrorFrame(*sourceErr)); err != nil {
						return fmt.Errorf("%w: %w", ErrClientDisconnected, err)
					}
				}
				return nil
			}
			if err := out.Send(logs.Encode(line)); err != nil {
				return fmt.Errorf("%w: %w", ErrClientDisconnected, err)
			}
			s.delivered++
		}
	}
}

package relay

import "time"

type Config struct {
	// BacklogLines is how many prior lines a session asks for when the
	// caller doesn't say.
	BacklogLines    int64
	MaxBacklogLines int64
	// BufferLines bounds the queue between framing and delivery. Once full
	// the source is no longer read until the client catches up.
	BufferLines       int
	MaxLineBytes      int
	HeartbeatInterval time.Duration
	IdleTimeout       time.Duration
}

const (
	defaultBacklogLines      = 1
	defaultMaxBacklogLines   = 1000
	defaultBufferLines       = 64
	defaultHeartbeatInterval = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.BacklogLines <= 0 {
		c.BacklogLines = defaultBacklogLines
	}
	if c.MaxBacklogLines <= 0 {
		c.MaxBacklogLines = defaultMaxBacklogLines
	}
	if c.BacklogLines > c.MaxBacklogLines {
		c.BacklogLines = c.MaxBacklogLines
	}
	if c.BufferLines <= 0 {
		c.BufferLines = defaultBufferLines
	}
	if c.MaxLineBytes < 0 {
		c.MaxLineBytes = 0
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = defaultHeartbeatInterval
	}
	return c
}

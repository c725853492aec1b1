package relay

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/augustdev/amphitheatre/internal/logs"
	"github.com/gorilla/websocket"
)

var websocketWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketStream sends frames as JSON text messages. Comment frames become
// ping control frames. The peer is only expected to answer pings and close;
// anything it sends is discarded.
type WebSocketStream struct {
	conn *websocket.Conn
	done chan struct{}
	once sync.Once
}

func UpgradeWebSocket(w http.ResponseWriter, r *http.Request) (*WebSocketStream, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	s := &WebSocketStream{
		conn: conn,
		done: make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

func (s *WebSocketStream) readLoop() {
	defer s.markDone()
	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			return
		}
	}
}

func (s *WebSocketStream) markDone() {
	s.once.Do(func() { close(s.done) })
}

// Done is closed once the peer has gone away.
func (s *WebSocketStream) Done() <-chan struct{} {
	return s.done
}

func (s *WebSocketStream) Send(frame logs.Frame) error {
	deadline := time.Now().Add(websocketWriteTimeout)
	if frame.IsComment() {
		return s.conn.WriteControl(websocket.PingMessage, nil, deadline)
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.conn.WriteJSON(frame)
}

// Close sends a close frame with the given reason and releases the connection.
func (s *WebSocketStream) Close(code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := s.conn.Close()
	s.markDone()
	return err
}

// Finish closes the connection with a status matching how the session ended.
func (s *WebSocketStream) Finish(runErr error) error {
	switch {
	case runErr == nil:
		return s.Close(websocket.CloseNormalClosure, "log stream ended")
	case errors.Is(runErr, ErrClientDisconnected):
		return s.Close(websocket.CloseGoingAway, "")
	case errors.Is(runErr, ErrIdleTimeout):
		return s.Close(websocket.CloseNormalClosure, "idle timeout")
	default:
		return s.Close(websocket.CloseInternalServerErr, "log stream failed")
	}
}

package session

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is a message based connection to the server. *websocket.Conn implements it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens connections to the server.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials the server over a websocket.
type WebsocketDialer struct {
	Dialer *websocket.Dialer
	Header http.Header
}

// Dial ...
func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, url, d.Header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// prepare applies the read limits and the pong handler to connections that support them.
func prepare(conn Conn, maxSize int64, pongWait time.Duration) {
	if c, ok := conn.(interface{ SetReadLimit(int64) }); ok {
		c.SetReadLimit(maxSize)
	}
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	if c, ok := conn.(interface{ SetPongHandler(func(string) error) }); ok {
		c.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}
}

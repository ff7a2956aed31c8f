package session

import "time"

// Config holds the settings of a session.
type Config struct {
	// URL is the websocket address of the server.
	URL      string
	Username string
	// Token is an optional auth token. It is inspected before connecting but never verified: the
	// server does that.
	Token string

	// ConnectTimeout bounds every connection attempt.
	ConnectTimeout time.Duration
	// ReconnectAttempts is how many times the session tries to reconnect after losing its
	// connection. ReconnectDelay is the wait before every attempt.
	ReconnectAttempts int
	ReconnectDelay    time.Duration

	// UpdateInterval is the minimum time between two state updates. An update is only sent if the
	// position, the yaw or the velocity changed by more than their epsilon since the last one.
	UpdateInterval  time.Duration
	PositionEpsilon float32
	RotationEpsilon float32
	VelocityEpsilon float32

	// Binary makes the session encode the frames it sends with msgpack instead of JSON.
	Binary bool

	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBuffer     int
	InboxSize      int

	// RecordingFile, if not empty, is the file every frame sent and received is recorded to.
	RecordingFile string
}

// DefaultConfig returns the default settings for a session connecting to url as username.
func DefaultConfig(url, username string) Config {
	return Config{
		URL:               url,
		Username:          username,
		ConnectTimeout:    5 * time.Second,
		ReconnectAttempts: 5,
		ReconnectDelay:    time.Second,
		UpdateInterval:    50 * time.Millisecond,
		PositionEpsilon:   0.01,
		RotationEpsilon:   0.01,
		VelocityEpsilon:   0.01,
		PingInterval:      54 * time.Second,
		PongWait:          60 * time.Second,
		WriteWait:         10 * time.Second,
		MaxMessageSize:    1 << 20,
		SendBuffer:        256,
		InboxSize:         1024,
	}
}

package session

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/oomph-ac/frontline/protocol"
	"github.com/oomph-ac/frontline/worker"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// frame is an encoded message waiting to be written.
type frame struct {
	kind int
	data []byte
}

// Session is the connection of the local player to the server. The connection is managed by
// goroutines of its own: they report everything that happens on the inbox and never touch game state.
// Send, SendUpdate and Inbox are meant to be used by the single goroutine running the game.
type Session struct {
	cfg    Config
	log    *logrus.Entry
	dialer Dialer
	id     uuid.UUID

	username string
	inbox    chan Event
	send     chan frame
	throttle *Throttle
	workers  *worker.Group
	cancel   context.CancelFunc

	mu  deadlock.Mutex
	rec *Recorder

	started      atomic.Bool
	closed       atomic.Bool
	connected    atomic.Bool
	serverClosed atomic.Bool
	closeReason  atomic.String
	// generation is incremented on every connection, so that the first update sent on a new connection
	// is never suppressed.
	generation     atomic.Uint64
	lastGeneration uint64
}

// New returns a session that connects with the dialer passed once started.
func New(cfg Config, log *logrus.Logger, dialer Dialer) *Session {
	id := uuid.New()
	entry := log.WithField("session", id.String())
	return &Session{
		cfg:      cfg,
		log:      entry,
		dialer:   dialer,
		id:       id,
		username: cfg.Username,
		inbox:    make(chan Event, max(cfg.InboxSize, 1)),
		send:     make(chan frame, max(cfg.SendBuffer, 1)),
		throttle: NewThrottle(cfg),
		workers:  worker.NewGroup(entry, map[string]string{"session": id.String(), "username": cfg.Username}),
	}
}

// ID returns the id the session is identified by in logs and reports.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Username returns the name the local player is announced as.
func (s *Session) Username() string {
	return s.username
}

// Inbox returns the channel events of the session are delivered on.
func (s *Session) Inbox() <-chan Event {
	return s.inbox
}

// Connected returns true if the session currently has a connection.
func (s *Session) Connected() bool {
	return s.connected.Load()
}

// Start starts connecting to the server in the background and returns immediately. The outcome of the
// connection attempt is delivered on the inbox. Start fails if the auth token is malformed or expired.
func (s *Session) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return oerror.New("session already started")
	}
	if s.cfg.Token != "" {
		username, err := inspectToken(s.cfg.Token, time.Now())
		if err != nil {
			return err
		}
		if username != "" {
			s.username = username
		}
	}
	if s.cfg.RecordingFile != "" {
		if err := s.startRecording(); err != nil {
			return err
		}
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.workers.Go("connection", func() {
		s.run(ctx)
	})
	return nil
}

func (s *Session) startRecording() error {
	f, err := os.Create(s.cfg.RecordingFile)
	if err != nil {
		return oerror.New("unable to create recording file: %v", err)
	}
	rec, err := NewRecorder(f, RecordingHeader{
		SessionID: s.id.String(),
		URL:       s.cfg.URL,
		Username:  s.username,
		StartedAt: time.Now(),
	})
	if err != nil {
		f.Close()
		return err
	}
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
	s.workers.Go("recorder", rec.Run)
	return nil
}

// Close ends the session and waits for its goroutines to return. It returns the first panic recovered
// in them, if any.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Lock()
	if s.rec != nil {
		s.rec.Close()
	}
	s.mu.Unlock()
	return s.workers.Wait()
}

// Send queues a message to be sent to the server. It returns an error of the connection kind if the
// session is not connected or too many messages are queued already.
func (s *Session) Send(msg protocol.Outbound) error {
	if !s.connected.Load() {
		return oerror.Newk(oerror.KindConnection, game.ErrorNotConnected)
	}
	f, err := s.encode(msg)
	if err != nil {
		return err
	}
	select {
	case s.send <- f:
		return nil
	default:
		return oerror.Newk(oerror.KindConnection, game.ErrorSendQueueFull)
	}
}

// SendUpdate sends the state of the local player if the throttle allows it. It returns true if the
// update was queued.
func (s *Session) SendUpdate(now time.Time, u protocol.StateUpdate) bool {
	if !s.connected.Load() {
		return false
	}
	if gen := s.generation.Load(); gen != s.lastGeneration {
		s.lastGeneration = gen
		s.throttle.Reset()
	}
	if !s.throttle.Allow(now, u) {
		return false
	}
	if err := s.Send(u); err != nil {
		s.log.Debugf("unable to send update: %v", err)
		return false
	}
	s.throttle.Sent(u)
	return true
}

func (s *Session) encode(msg protocol.Outbound) (frame, error) {
	if s.cfg.Binary {
		data, err := protocol.EncodeBinary(msg)
		return frame{kind: websocket.BinaryMessage, data: data}, err
	}
	data, err := protocol.Encode(msg)
	return frame{kind: websocket.TextMessage, data: data}, err
}

// emit delivers an event on the inbox unless the session is being closed.
func (s *Session) emit(ctx context.Context, ev Event) {
	select {
	case s.inbox <- ev:
	case <-ctx.Done():
	}
}

func (s *Session) record(dir Direction, f frame) {
	s.mu.Lock()
	rec := s.rec
	s.mu.Unlock()
	if rec != nil {
		rec.Record(dir, time.Now(), f.data, f.kind == websocket.BinaryMessage)
	}
}

// run connects to the server and keeps the session connected until it is closed, the server ends it,
// or reconnecting fails.
func (s *Session) run(ctx context.Context) {
	conn, err := s.dial(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Errorf("unable to connect to %s: %v", s.cfg.URL, err)
			s.emit(ctx, ConnectFailed{Err: err})
		}
		return
	}
	s.log.Infof("connected to %s as %s", s.cfg.URL, s.username)
	s.markConnected()
	s.emit(ctx, Connected{})

	for {
		err := s.serve(ctx, conn)
		if ctx.Err() != nil {
			return
		}
		if s.serverClosed.Load() {
			s.log.Infof("session ended by server: %s", s.closeReason.Load())
			s.emit(ctx, Closed{Reason: s.closeReason.Load()})
			return
		}
		s.log.Warnf("connection lost: %v", err)
		s.emit(ctx, Disconnected{Err: err})

		if conn, err = s.reconnect(ctx); err != nil {
			if ctx.Err() == nil {
				s.log.Errorf("%v", err)
				s.emit(ctx, Failed{Err: err})
			}
			return
		}
		s.log.Infof("reconnected to %s", s.cfg.URL)
		s.markConnected()
		s.emit(ctx, Connected{Reconnect: true})
	}
}

// reconnect tries to connect again up to the configured number of attempts, waiting before each one.
func (s *Session) reconnect(ctx context.Context) (Conn, error) {
	timer := time.NewTimer(s.cfg.ReconnectDelay)
	defer timer.Stop()

	for attempt := 1; attempt <= s.cfg.ReconnectAttempts; attempt++ {
		if attempt > 1 {
			timer.Reset(s.cfg.ReconnectDelay)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		s.emit(ctx, Reconnecting{Attempt: attempt})
		conn, err := s.dial(ctx)
		if err == nil {
			return conn, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warnf("reconnect attempt %d/%d failed: %v", attempt, s.cfg.ReconnectAttempts, err)
	}
	return nil, oerror.Newk(oerror.KindConnection, game.ErrorReconnectFailed, s.cfg.ReconnectAttempts)
}

// dial opens a connection within the connect timeout and announces the local player on it.
func (s *Session) dial(ctx context.Context) (Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()

	conn, err := s.dialer.Dial(dialCtx, s.cfg.URL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, oerror.Newk(oerror.KindConnection, game.ErrorConnectTimeout, s.cfg.ConnectTimeout)
		}
		return nil, oerror.Wrap(oerror.KindConnection, err, "unable to dial "+s.cfg.URL)
	}

	join, err := s.encode(protocol.Join{Username: s.username, Token: s.cfg.Token})
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
		err = conn.WriteMessage(join.kind, join.data)
	}
	if err != nil {
		conn.Close()
		return nil, oerror.Wrap(oerror.KindConnection, err, "unable to announce player")
	}
	s.record(DirectionOut, join)
	return conn, nil
}

// markConnected flags the session as connected before its connection is announced on the inbox, so
// that messages can be sent as soon as the event is seen.
func (s *Session) markConnected() {
	s.generation.Inc()
	s.connected.Store(true)
}

// serve pumps messages over an established connection until it drops or the session is closed.
func (s *Session) serve(ctx context.Context, conn Conn) error {
	prepare(conn, s.cfg.MaxMessageSize, s.cfg.PongWait)
	defer s.connected.Store(false)

	readErr := make(chan error, 1)
	s.workers.Go("read pump", func() {
		readErr <- s.readPump(ctx, conn)
	})
	err := s.writePump(ctx, conn, readErr)
	conn.Close()
	return err
}

// readPump reads messages from the connection and delivers them on the inbox.
func (s *Session) readPump(ctx context.Context, conn Conn) error {
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return oerror.Wrap(oerror.KindConnection, err, "read")
		}
		s.record(DirectionIn, frame{kind: kind, data: data})

		var msg protocol.Inbound
		if kind == websocket.BinaryMessage {
			msg, err = protocol.DecodeBinary(data)
		} else {
			msg, err = protocol.Decode(data)
		}
		if err != nil {
			s.log.Warnf("dropping message: %v", err)
			continue
		}
		if d, ok := msg.(protocol.Disconnect); ok {
			s.closeReason.Store(d.Reason)
			s.serverClosed.Store(true)
		}
		s.emit(ctx, Message{Msg: msg})
	}
}

// writePump writes queued messages and keeps the connection alive with pings. It returns once the read
// pump fails, a write fails, or the session is closed.
func (s *Session) writePump(ctx context.Context, conn Conn, readErr <-chan error) error {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case err := <-readErr:
			return err
		case f := <-s.send:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := conn.WriteMessage(f.kind, f.data); err != nil {
				return oerror.Wrap(oerror.KindConnection, err, "write")
			}
			s.record(DirectionOut, f)
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return oerror.Wrap(oerror.KindConnection, err, "ping")
			}
		}
	}
}

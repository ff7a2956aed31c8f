package session

import "github.com/oomph-ac/frontline/protocol"

// Event is delivered on the inbox of a session. It is either a change of the connection state or a
// message received from the server.
type Event interface {
	sessionEvent()
}

// Connected is delivered once the session is connected and has announced the local player. Reconnect
// is true if the session had been connected before.
type Connected struct {
	Reconnect bool
}

// ConnectFailed is delivered if the first connection attempt fails. The session is over.
type ConnectFailed struct {
	Err error
}

// Disconnected is delivered when an established connection drops. The session tries to reconnect.
type Disconnected struct {
	Err error
}

// Reconnecting is delivered before every reconnection attempt.
type Reconnecting struct {
	Attempt int
}

// Failed is delivered once if every reconnection attempt failed. The session is over.
type Failed struct {
	Err error
}

// Closed is delivered when the server ended the session with a disconnect message.
type Closed struct {
	Reason string
}

// Message carries a message received from the server.
type Message struct {
	Msg protocol.Inbound
}

func (Connected) sessionEvent()     {}
func (ConnectFailed) sessionEvent() {}
func (Disconnected) sessionEvent()  {}
func (Reconnecting) sessionEvent()  {}
func (Failed) sessionEvent()        {}
func (Closed) sessionEvent()        {}
func (Message) sessionEvent()       {}

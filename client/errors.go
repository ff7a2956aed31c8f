package client

import (
	"errors"
	"fmt"
)

// Errors returned by Game.Frame. They wrap the error that caused them, so the kind of the cause can still
// be checked with errors.Is against the oerror sentinels.
var (
	// ErrDesync is returned when the server no longer knows the local player. The game is over and a new
	// one has to be started.
	ErrDesync = errors.New("desynchronized from server")
	// ErrDisconnected is returned when the server ended the session. The game is over.
	ErrDisconnected = errors.New("disconnected by server")
	// ErrConnectionLost is returned when the session could not connect, or could not reconnect after
	// losing its connection. The game is over.
	ErrConnectionLost = errors.New("connection lost")
	// ErrLocalDeath is returned when the local player dies. The game goes on with input and physics
	// blocked until the server confirms the respawn.
	ErrLocalDeath = errors.New("local player died")
)

func wrap(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

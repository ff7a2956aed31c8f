package game

const (
	ErrorConnectTimeout    = "connection attempt timed out after %v"
	ErrorReconnectFailed   = "unable to reconnect after %d attempts"
	ErrorNotConnected      = "session is not connected"
	ErrorLocalMissing      = "local player %q missing from roster"
	ErrorServerDisconnect  = "disconnected by server: %s"
	ErrorLocalDeath        = "local player %q was killed by %q"
	ErrorUnknownEvent      = "unknown event %q"
	ErrorMalformedPayload  = "malformed %q payload: %v"
	ErrorTokenExpired      = "auth token expired at %v"
	ErrorSendQueueFull     = "send queue is full"
	ErrorSessionNotStarted = "no start event received yet"
)

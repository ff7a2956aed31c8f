package oerror

import "fmt"

// Kind classifies an Error so callers can decide whether a session is recoverable.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindConnection covers dial timeouts, transport failures and reconnect exhaustion.
	KindConnection
	// KindDesync is raised when the server's view of the session no longer contains the local player.
	KindDesync
	// KindProtocol is raised for frames that cannot be decoded into a known message.
	KindProtocol
	// KindTerminal marks the end of a session that cannot continue, such as local death or a server disconnect.
	KindTerminal
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindDesync:
		return "desync"
	case KindProtocol:
		return "protocol"
	case KindTerminal:
		return "terminal"
	}
	return "unknown"
}

var (
	ErrConnection = &Error{Kind: KindConnection, Err: "connection error"}
	ErrDesync     = &Error{Kind: KindDesync, Err: "session desynchronized"}
	ErrProtocol   = &Error{Kind: KindProtocol, Err: "protocol error"}
	ErrTerminal   = &Error{Kind: KindTerminal, Err: "session ended"}
)

type Error struct {
	Kind  Kind
	Err   string
	cause error
}

// New returns an error of unknown kind with a formatted message.
func New(format string, args ...any) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

// Newk returns an error of the given kind with a formatted message.
func Newk(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind that wraps cause. A nil cause returns nil.
func Wrap(kind Kind, cause error, msg string) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Err: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Err + ": " + e.cause.Error()
	}
	return e.Err
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind != KindUnknown && t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

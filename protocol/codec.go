package protocol

import (
	"github.com/disgoorg/json"
	"github.com/oomph-ac/frontline/game"
	"github.com/oomph-ac/frontline/oerror"
	"github.com/vmihailenco/msgpack/v5"
)

// envelope wraps every outgoing frame with its event name.
type envelope struct {
	Event string `json:"event" msgpack:"event"`
	Data  any    `json:"data,omitempty" msgpack:"data,omitempty"`
}

// inEnvelope defers decoding of the payload until the event name is known.
type inEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type binaryInEnvelope struct {
	Event string             `msgpack:"event"`
	Data  msgpack.RawMessage `msgpack:"data,omitempty"`
}

type unmarshalFunc func(data []byte, v any) error

var decoders = map[string]func(unmarshalFunc, []byte) (Inbound, error){
	EventStart:      decodeAs[Start],
	EventJoined:     decodeAs[Joined],
	EventRoster:     decodeAs[Roster],
	EventLeft:       decodeAs[Left],
	EventUpdate:     decodeAs[Update],
	EventBatchState: decodeAs[BatchState],
	EventHit:        decodeAs[Hit],
	EventDeath:      decodeAs[Death],
	EventRespawned:  decodeAs[Respawned],
	EventDisconnect: decodeAs[Disconnect],
}

func decodeAs[T Inbound](unmarshal unmarshalFunc, data []byte) (Inbound, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decode(event string, data []byte, unmarshal unmarshalFunc) (Inbound, error) {
	dec, ok := decoders[event]
	if !ok {
		return nil, oerror.Newk(oerror.KindProtocol, game.ErrorUnknownEvent, event)
	}
	msg, err := dec(unmarshal, data)
	if err != nil {
		return nil, oerror.Newk(oerror.KindProtocol, game.ErrorMalformedPayload, event, err)
	}
	return msg, nil
}

// Decode decodes a JSON text frame into the inbound message it carries.
func Decode(frame []byte) (Inbound, error) {
	var env inEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, oerror.Wrap(oerror.KindProtocol, err, "decode envelope")
	}
	return decode(env.Event, env.Data, json.Unmarshal)
}

// DecodeBinary decodes a msgpack binary frame into the inbound message it carries.
func DecodeBinary(frame []byte) (Inbound, error) {
	var env binaryInEnvelope
	if err := msgpack.Unmarshal(frame, &env); err != nil {
		return nil, oerror.Wrap(oerror.KindProtocol, err, "decode binary envelope")
	}
	return decode(env.Event, env.Data, msgpack.Unmarshal)
}

// Encode encodes an outbound message into a JSON text frame.
func Encode(msg Outbound) ([]byte, error) {
	return json.Marshal(envelope{Event: msg.Event(), Data: msg})
}

// EncodeBinary encodes an outbound message into a msgpack binary frame.
func EncodeBinary(msg Outbound) ([]byte, error) {
	return msgpack.Marshal(envelope{Event: msg.Event(), Data: msg})
}

// EncodeInbound encodes a server message into a frame, msgpack if binary is set and JSON otherwise. It is
// the counterpart of Decode and is used by tools and tests that play the part of the server.
func EncodeInbound(msg Inbound, binary bool) ([]byte, error) {
	env := envelope{Event: msg.Event(), Data: msg}
	if binary {
		return msgpack.Marshal(env)
	}
	return json.Marshal(env)
}

var outboundDecoders = map[string]func(unmarshalFunc, []byte) (Outbound, error){
	EventJoin:        decodeOutAs[Join],
	EventUpdate:      decodeOutAs[StateUpdate],
	EventShoot:       decodeOutAs[Shoot],
	EventDeathReport: decodeOutAs[DeathReport],
	EventRespawn:     decodeOutAs[RespawnRequest],
}

func decodeOutAs[T Outbound](unmarshal unmarshalFunc, data []byte) (Outbound, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeOutbound decodes a frame sent by a client. It is the counterpart of Encode and EncodeBinary.
func DecodeOutbound(frame []byte, binary bool) (Outbound, error) {
	var (
		event     string
		data      []byte
		unmarshal unmarshalFunc = json.Unmarshal
	)
	if binary {
		var env binaryInEnvelope
		if err := msgpack.Unmarshal(frame, &env); err != nil {
			return nil, oerror.Wrap(oerror.KindProtocol, err, "decode binary envelope")
		}
		event, data, unmarshal = env.Event, env.Data, msgpack.Unmarshal
	} else {
		var env inEnvelope
		if err := json.Unmarshal(frame, &env); err != nil {
			return nil, oerror.Wrap(oerror.KindProtocol, err, "decode envelope")
		}
		event, data = env.Event, env.Data
	}

	dec, ok := outboundDecoders[event]
	if !ok {
		return nil, oerror.Newk(oerror.KindProtocol, game.ErrorUnknownEvent, event)
	}
	msg, err := dec(unmarshal, data)
	if err != nil {
		return nil, oerror.Newk(oerror.KindProtocol, game.ErrorMalformedPayload, event, err)
	}
	return msg, nil
}

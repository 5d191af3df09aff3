package server

import (
	"errors"
	"fmt"

	"github.com/Kritagya123611/OUTLAND-Effect-and-Cause-sub000/game"
)

// Message types
const (
	MsgTypeInput = "input"
	MsgTypeShift = "shift"
	MsgTypeShoot = "shoot"
	MsgTypeInit  = "init"
	MsgTypeState = "state"
)

var (
	// ErrEmptyMessage is returned for a zero-length frame.
	ErrEmptyMessage = errors.New("empty message")
	// ErrUnknownMessageType is returned when the type tag is missing or not recognised.
	ErrUnknownMessageType = errors.New("unknown message type")
	// ErrMissingKeys is returned for an input message without a keys object.
	ErrMissingKeys = errors.New("input message missing keys")
)

// Inbound is a decoded client message. Exactly one of the concrete message
// types below implements it.
type Inbound interface {
	inboundType() string
}

// InputMessage carries the held direction keys and the facing angle.
type InputMessage struct {
	Type  string    `json:"type" msgpack:"type" jsonschema:"enum=input"`
	Keys  game.Keys `json:"keys" msgpack:"keys"`
	Angle float64   `json:"angle" msgpack:"angle"`
}

// ShiftMessage asks to move to the other world.
type ShiftMessage struct {
	Type string `json:"type" msgpack:"type" jsonschema:"enum=shift"`
}

// ShootMessage asks to fire one bullet along the current facing.
type ShootMessage struct {
	Type string `json:"type" msgpack:"type" jsonschema:"enum=shoot"`
}

func (InputMessage) inboundType() string { return MsgTypeInput }
func (ShiftMessage) inboundType() string { return MsgTypeShift }
func (ShootMessage) inboundType() string { return MsgTypeShoot }

// envelope is the union of every inbound field. Pointers distinguish an
// absent field from a zero value.
type envelope struct {
	Type  string     `json:"type" msgpack:"type"`
	Keys  *game.Keys `json:"keys,omitempty" msgpack:"keys,omitempty"`
	Angle *float64   `json:"angle,omitempty" msgpack:"angle,omitempty"`
}

// DecodeInbound parses a raw frame into one of the Inbound variants.
func DecodeInbound(c Codec, data []byte) (Inbound, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	var env envelope
	if err := c.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode %s message: %w", c.Name(), err)
	}

	switch env.Type {
	case MsgTypeInput:
		if env.Keys == nil {
			return nil, ErrMissingKeys
		}
		msg := InputMessage{Type: MsgTypeInput, Keys: *env.Keys}
		if env.Angle != nil {
			msg.Angle = *env.Angle
		}
		return msg, nil
	case MsgTypeShift:
		return ShiftMessage{Type: MsgTypeShift}, nil
	case MsgTypeShoot:
		return ShootMessage{Type: MsgTypeShoot}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.Type)
	}
}

// InitMessage is sent once after a connection joins. It tells the client its
// own id and the static obstacle layout.
type InitMessage struct {
	Type      string          `json:"type" msgpack:"type" jsonschema:"enum=init"`
	ID        string          `json:"id" msgpack:"id"`
	Obstacles []game.Obstacle `json:"obstacles" msgpack:"obstacles"`
	Width     int             `json:"width" msgpack:"width"`
	Height    int             `json:"height" msgpack:"height"`
}

// StateMessage is broadcast after every tick.
type StateMessage struct {
	Type  string       `json:"type" msgpack:"type" jsonschema:"enum=state"`
	State StatePayload `json:"state" msgpack:"state"`
}

// StatePayload is the wire form of a game.Snapshot.
type StatePayload struct {
	Tick        int64         `json:"tick" msgpack:"tick"`
	Players     []game.Player `json:"players" msgpack:"players"`
	Bullets     []game.Bullet `json:"bullets" msgpack:"bullets"`
	DesyncLevel float64       `json:"desyncLevel" msgpack:"desyncLevel"`
}

func newInitMessage(id string, obstacles []game.Obstacle) InitMessage {
	if obstacles == nil {
		obstacles = []game.Obstacle{}
	}
	return InitMessage{
		Type:      MsgTypeInit,
		ID:        id,
		Obstacles: obstacles,
		Width:     game.PlayfieldWidth,
		Height:    game.PlayfieldHeight,
	}
}

func newStateMessage(snap game.Snapshot) StateMessage {
	return StateMessage{
		Type: MsgTypeState,
		State: StatePayload{
			Tick:        snap.Tick,
			Players:     snap.Players,
			Bullets:     snap.Bullets,
			DesyncLevel: snap.DesyncLevel,
		},
	}
}

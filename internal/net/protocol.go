package net

import "github.com/vmihailenco/msgpack/v5"

// Message types. Incoming remote events steer other players' controllers;
// outgoing "pos" reports our own authoritative position.
const (
	MsgJoin   = "join"
	MsgLeave  = "leave"
	MsgPos    = "pos"  // movement intent / position report
	MsgWarp   = "warp" // authoritative teleport correction
	MsgAttack = "attack"
	MsgHealth = "health"
)

// Envelope wraps every message with a type tag. The payload stays raw until
// the type is known, avoiding a double decode.
type Envelope struct {
	T string             `msgpack:"t"`
	D msgpack.RawMessage `msgpack:"d,omitempty"`
}

// JoinMsg announces a player entering the arena.
type JoinMsg struct {
	Name string `msgpack:"n"`
}

// LeaveMsg announces a player leaving.
type LeaveMsg struct {
	ID string `msgpack:"id"`
}

// PosUpdate carries a feet-level world position. Incoming it is a movement
// target for the named remote player; outgoing it reports our body center.
type PosUpdate struct {
	ID string  `msgpack:"id"`
	X  float32 `msgpack:"x"`
	Y  float32 `msgpack:"y"`
	Z  float32 `msgpack:"z"`
}

// WarpMsg is an authoritative correction: the named player snaps to this
// position, bypassing movement.
type WarpMsg struct {
	ID string  `msgpack:"id"`
	X  float32 `msgpack:"x"`
	Y  float32 `msgpack:"y"`
	Z  float32 `msgpack:"z"`
}

// AttackEvent is a combat notification between players.
type AttackEvent struct {
	From   string `msgpack:"f"`
	Target string `msgpack:"t"`
	Damage int    `msgpack:"d"`
}

// HealthEvent reports a player's new health after combat resolution.
type HealthEvent struct {
	ID string `msgpack:"id"`
	HP int    `msgpack:"hp"`
}

// Encode marshals a typed payload into an envelope frame.
func Encode(msgType string, payload any) ([]byte, error) {
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(Envelope{T: msgType, D: raw})
}

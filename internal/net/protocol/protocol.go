package protocol

// Event names carried in Envelope.T.
const (
	MsgInit  = "init"
	MsgState = "state"
	MsgMove  = "move"
	MsgShoot = "shoot"
)

// Envelope is the decoded outer frame of every message. P holds the still
// encoded payload, in whichever codec produced the envelope.
type Envelope struct {
	T string
	P []byte
}

// Init is sent once to a freshly connected client.
type Init struct {
	SessionID string `json:"sessionId" msgpack:"sessionId"`
}

// Move is the client's movement intent: held keys plus facing in radians.
type Move struct {
	Keys  KeySet  `json:"keys" msgpack:"keys"`
	Angle float64 `json:"angle" msgpack:"angle"`
}

// State is the full world broadcast after every tick.
type State struct {
	Players map[string]PlayerState `json:"players" msgpack:"players"`
	Bullets []BulletState          `json:"bullets" msgpack:"bullets"`
}

type PlayerState struct {
	ID     string  `json:"id" msgpack:"id"`
	Name   string  `json:"name" msgpack:"name"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Angle  float64 `json:"angle" msgpack:"angle"`
	Health int     `json:"health" msgpack:"health"`
	Kills  int     `json:"kills" msgpack:"kills"`
}

type BulletState struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Angle float64 `json:"angle" msgpack:"angle"`
	Owner string  `json:"owner" msgpack:"owner"`
}

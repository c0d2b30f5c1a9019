package event

import "github.com/solanharrison/stickman-fps-server/internal/world"

type PlayerJoined struct {
	ID   world.SessionID
	Name string
}

type PlayerLeft struct {
	ID world.SessionID
}

// PlayerKilled is emitted by the simulation when a defender's health reaches
// zero. Credited is false when the shooter had already disconnected.
type PlayerKilled struct {
	Tick     uint64
	Killer   world.SessionID
	Victim   world.SessionID
	Credited bool
}

package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhasePreUpdate Phase = iota // 0: dispatch last tick's events
	PhaseUpdate                 // 1: simulation
	PhaseOutput                 // 2: build + send state
	PhasePersist                // 3: kill log buffering / flush
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpdate:
		return "PreUpdate"
	case PhaseUpdate:
		return "Update"
	case PhaseOutput:
		return "Output"
	case PhasePersist:
		return "Persist"
	default:
		return "Unknown"
	}
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

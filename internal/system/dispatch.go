package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/core/event"
	coresys "github.com/solanharrison/stickman-fps-server/internal/core/system"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// EventDispatchSystem delivers last tick's events to their subscribers.
// Phase 0 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// LogPresence reports the online head count whenever a player joins or leaves.
func LogPresence(bus *event.Bus, ws *world.State, log *zap.Logger) {
	event.Subscribe(bus, func(e event.PlayerJoined) {
		log.Info("players online", zap.Int("count", ws.PlayerCount()), zap.String("joined", e.Name))
	})
	event.Subscribe(bus, func(e event.PlayerLeft) {
		log.Info("players online", zap.Int("count", ws.PlayerCount()), zap.String("left", string(e.ID)))
	})
}

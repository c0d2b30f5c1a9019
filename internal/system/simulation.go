package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/core/event"
	coresys "github.com/solanharrison/stickman-fps-server/internal/core/system"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// SimulationSystem advances projectiles, resolves hits and respawns the dead.
// Phase 1 (Update).
type SimulationSystem struct {
	world *world.State
	bus   *event.Bus // may be nil
	log   *zap.Logger
}

func NewSimulationSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *SimulationSystem {
	return &SimulationSystem{world: ws, bus: bus, log: log}
}

func (s *SimulationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SimulationSystem) Update(_ time.Duration) {
	for _, k := range s.world.Step() {
		s.log.Info("player killed",
			zap.Uint64("tick", k.Tick),
			zap.String("killer", string(k.Killer)),
			zap.String("victim", string(k.Victim)),
			zap.Bool("credited", k.Credited),
		)
		if s.bus != nil {
			event.Emit(s.bus, event.PlayerKilled{
				Tick:     k.Tick,
				Killer:   k.Killer,
				Victim:   k.Victim,
				Credited: k.Credited,
			})
		}
	}
}

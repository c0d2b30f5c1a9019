package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/solanharrison/stickman-fps-server/internal/core/system"
	"github.com/solanharrison/stickman-fps-server/internal/net"
	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// OutputSystem broadcasts the full world state to every session after the
// tick. Phase 2 (Output).
type OutputSystem struct {
	world *world.State
	codec protocol.Codec
	store *net.SessionStore
	log   *zap.Logger
}

func NewOutputSystem(ws *world.State, codec protocol.Codec, store *net.SessionStore, log *zap.Logger) *OutputSystem {
	return &OutputSystem{world: ws, codec: codec, store: store, log: log}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	if s.store.Len() == 0 {
		return
	}
	frame, err := s.codec.Encode(protocol.MsgState, StateMessage(s.world.Snapshot()))
	if err != nil {
		s.log.Error("encode state", zap.Error(err))
		return
	}
	// Send never blocks; a session whose queue is full closes itself.
	s.store.ForEach(func(sess *net.Session) {
		sess.Send(frame)
	})
}

// StateMessage converts a snapshot into the wire form: players keyed by id,
// bullets in flight order.
func StateMessage(snap world.Snapshot) protocol.State {
	msg := protocol.State{
		Players: make(map[string]protocol.PlayerState, len(snap.Players)),
		Bullets: make([]protocol.BulletState, 0, len(snap.Projectiles)),
	}
	for _, p := range snap.Players {
		msg.Players[string(p.ID)] = protocol.PlayerState{
			ID:     string(p.ID),
			Name:   p.Name,
			X:      p.X,
			Y:      p.Y,
			Angle:  p.Angle,
			Health: p.Health,
			Kills:  p.Kills,
		}
	}
	for _, b := range snap.Projectiles {
		msg.Bullets = append(msg.Bullets, protocol.BulletState{
			X:     b.X,
			Y:     b.Y,
			Angle: b.Angle,
			Owner: string(b.Owner),
		})
	}
	return msg
}

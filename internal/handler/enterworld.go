package handler

import (
	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/core/event"
	"github.com/solanharrison/stickman-fps-server/internal/net"
	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// Join spawns a player for id and returns it. Joining twice returns the
// existing player.
func Join(id world.SessionID, deps *Deps) world.Player {
	p := deps.World.AddPlayer(id)
	deps.Log.Info("player connected",
		zap.String("session", string(id)),
		zap.String("name", p.Name),
		zap.Float64("x", p.X),
		zap.Float64("y", p.Y),
	)
	if deps.Bus != nil {
		event.Emit(deps.Bus, event.PlayerJoined{ID: id, Name: p.Name})
	}
	return p
}

// HandleConnect spawns the player and tells the client its session id.
func HandleConnect(sess *net.Session, deps *Deps) world.Player {
	p := Join(sess.ID, deps)
	b, err := deps.Codec.Encode(protocol.MsgInit, protocol.Init{SessionID: string(sess.ID)})
	if err != nil {
		deps.Log.Error("encode init", zap.Error(err))
		return p
	}
	sess.Send(b)
	return p
}

// SessionHooks binds connect/disconnect handling to the transport.
type SessionHooks struct {
	Deps *Deps
}

func (h SessionHooks) OnConnect(sess *net.Session) {
	HandleConnect(sess, h.Deps)
}

func (h SessionHooks) OnDisconnect(sess *net.Session) {
	HandleDisconnect(sess, h.Deps)
}

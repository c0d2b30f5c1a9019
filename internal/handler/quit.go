package handler

import (
	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/core/event"
	"github.com/solanharrison/stickman-fps-server/internal/net"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// Leave removes the player for id. Projectiles it fired stay in flight.
// Leaving twice is a no-op.
func Leave(id world.SessionID, deps *Deps) {
	if !deps.World.RemovePlayer(id) {
		return
	}
	deps.Log.Info("player disconnected", zap.String("session", string(id)))
	if deps.Bus != nil {
		event.Emit(deps.Bus, event.PlayerLeft{ID: id})
	}
}

// HandleDisconnect runs once the transport reports the session closed.
func HandleDisconnect(sess *net.Session, deps *Deps) {
	Leave(sess.ID, deps)
}

package handler

import (
	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// HandleShoot fires a projectile from the player's current position and facing.
// The payload, if any, is ignored.
func HandleShoot(id world.SessionID, _ protocol.Envelope, deps *Deps) {
	if !deps.World.Fire(id) {
		deps.Log.Debug("shoot for unknown session", zap.String("session", string(id)))
	}
}

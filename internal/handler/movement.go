package handler

import (
	"math"

	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// HandleMove applies a move intent immediately: the facing angle is stored
// as sent and each held key steps the player, clamped to the arena.
func HandleMove(id world.SessionID, env protocol.Envelope, deps *Deps) {
	m, err := protocol.DecodePayload[protocol.Move](deps.Codec, env)
	if err != nil {
		deps.Log.Debug("bad move payload", zap.String("session", string(id)), zap.Error(err))
		return
	}
	// NaN or Inf would poison every later projectile fired along this facing.
	if math.IsNaN(m.Angle) || math.IsInf(m.Angle, 0) {
		deps.Log.Debug("move with non-finite angle dropped", zap.String("session", string(id)))
		return
	}

	keys := world.Keys{Up: m.Keys.W, Down: m.Keys.S, Left: m.Keys.A, Right: m.Keys.D}
	if !deps.World.Move(id, keys, m.Angle) {
		deps.Log.Debug("move for unknown session", zap.String("session", string(id)))
	}
}

package handler

import (
	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/core/event"
	"github.com/solanharrison/stickman-fps-server/internal/net/packet"
	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// Deps holds shared dependencies injected into all handlers.
type Deps struct {
	World *world.State
	Codec protocol.Codec
	Bus   *event.Bus // optional
	Log   *zap.Logger
}

// RegisterAll registers the inbound intent handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(protocol.MsgMove, func(id world.SessionID, env protocol.Envelope) {
		HandleMove(id, env, deps)
	})
	reg.Register(protocol.MsgShoot, func(id world.SessionID, env protocol.Envelope) {
		HandleShoot(id, env, deps)
	})
}

package packet

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

// HandlerFunc is the callback signature for inbound event handlers.
type HandlerFunc func(id world.SessionID, env protocol.Envelope)

// Registry maps inbound event names to handlers.
type Registry struct {
	handlers map[string]HandlerFunc
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
		log:      log,
	}
}

// Register maps an event name to a handler. Registration happens at startup,
// before any session is accepted.
func (reg *Registry) Register(name string, fn HandlerFunc) {
	reg.handlers[name] = fn
}

// Dispatch finds the handler for env.T and calls it. Unknown event names are
// ignored. A panicking handler is recovered and reported as an error.
func (reg *Registry) Dispatch(id world.SessionID, env protocol.Envelope) error {
	fn, ok := reg.handlers[env.T]
	if !ok {
		reg.log.Debug("unknown event", zap.String("session", string(id)), zap.String("type", env.T))
		return nil
	}
	return reg.safeCall(fn, id, env)
}

// safeCall executes a handler with panic recovery so a single bad message
// cannot take down the connection goroutine.
func (reg *Registry) safeCall(fn HandlerFunc, id world.SessionID, env protocol.Envelope) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("type", env.T),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for %q: %v", env.T, rec)
		}
	}()
	fn(id, env)
	return nil
}

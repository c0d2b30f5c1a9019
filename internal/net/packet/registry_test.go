package packet

import (
	"testing"

	"go.uber.org/zap"

	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
	"github.com/solanharrison/stickman-fps-server/internal/world"
)

func TestDispatchRoutesByName(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	var gotID world.SessionID
	var gotType string
	reg.Register(protocol.MsgShoot, func(id world.SessionID, env protocol.Envelope) {
		gotID, gotType = id, env.T
	})

	if err := reg.Dispatch("s1", protocol.Envelope{T: protocol.MsgShoot}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if gotID != "s1" || gotType != protocol.MsgShoot {
		t.Fatalf("handler saw (%q,%q)", gotID, gotType)
	}
}

func TestDispatchIgnoresUnknown(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	if err := reg.Dispatch("s1", protocol.Envelope{T: "dance"}); err != nil {
		t.Fatalf("unknown event should be ignored, got %v", err)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(protocol.MsgMove, func(world.SessionID, protocol.Envelope) {
		panic("bad payload")
	})
	if err := reg.Dispatch("s1", protocol.Envelope{T: protocol.MsgMove}); err == nil {
		t.Fatalf("expected error from panicking handler")
	}
}
